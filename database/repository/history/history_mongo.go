package historyRepo

import (
	"context"
	"fmt"
	"time"

	"staybot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoHistoryRepo) SaveTurn(ctx context.Context, entry models.HistoryEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to save chat turn: %w", err)
	}
	return entry.ID, nil
}

func (r *mongoHistoryRepo) GetByUser(ctx context.Context, lodgingID, userID string, page, limit int) ([]models.HistoryEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filter := bson.M{"lodging_id": lodgingID, "user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.HistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	return entries, nil
}

func (r *mongoHistoryRepo) GetByConversation(ctx context.Context, conversationID string) ([]models.HistoryEntry, error) {
	filter := bson.M{"conversation_id": conversationID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.HistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode conversation history: %w", err)
	}
	return entries, nil
}
