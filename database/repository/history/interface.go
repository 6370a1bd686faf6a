package historyRepo

import (
	"context"

	"staybot/database"
	"staybot/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ChatHistoryRepository interface {
	SaveTurn(ctx context.Context, entry models.HistoryEntry) (string, error)
	GetByUser(ctx context.Context, lodgingID, userID string, page, limit int) ([]models.HistoryEntry, error)
	GetByConversation(ctx context.Context, conversationID string) ([]models.HistoryEntry, error)
}

type mongoHistoryRepo struct {
	coll *mongo.Collection
}

// NewMongoHistoryRepo returns a new ChatHistoryRepository instance using MongoDB.
func NewMongoHistoryRepo() ChatHistoryRepository {
	db := database.MongoClient.Database("staybot")
	return &mongoHistoryRepo{
		coll: db.Collection("chat_history"),
	}
}
