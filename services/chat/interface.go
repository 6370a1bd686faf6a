// Package chat runs one conversational turn end to end: extraction,
// classification, context assembly, the reservation state machine, and the
// idempotency guard around all of it.
package chat

import (
	"context"
	"time"

	historyRepo "staybot/database/repository/history"
	"staybot/models"
	"staybot/services/availability"
	"staybot/services/nlu"
	"staybot/services/responder"
	"staybot/services/session"
	"staybot/utils"

	"go.uber.org/zap"
)

// ChatService defines the conversational engine surface.
type ChatService interface {
	ProcessMessage(ctx context.Context, lodgingID string, req models.ChatRequest) (*models.ChatResponse, error)
	GetUserHistory(ctx context.Context, lodgingID, userID string, page, limit int) ([]models.HistoryEntry, error)
}

// TurnArchiver enqueues completed turns for background persistence.
type TurnArchiver interface {
	Archive(entry models.HistoryEntry) error
}

// DefaultChatService is the production ChatService.
type DefaultChatService struct {
	extractor    *nlu.Extractor
	classifier   *nlu.Classifier
	availability availability.Provider
	sessions     session.Store
	guard        *IdempotencyGuard
	responder    responder.Generator
	history      historyRepo.ChatHistoryRepository
	archiver     TurnArchiver
	frontendURL  string
	logger       *zap.Logger
	now          func() time.Time
}

// Deps wires the collaborators of a DefaultChatService. Availability,
// responder, history and archiver are optional: the pipeline degrades to
// partial data instead of failing the turn.
type Deps struct {
	Extractor    *nlu.Extractor
	Classifier   *nlu.Classifier
	Availability availability.Provider
	Sessions     session.Store
	Guard        *IdempotencyGuard
	Responder    responder.Generator
	History      historyRepo.ChatHistoryRepository
	Archiver     TurnArchiver
	FrontendURL  string
}

func NewDefaultChatService(deps Deps) *DefaultChatService {
	return &DefaultChatService{
		extractor:    deps.Extractor,
		classifier:   deps.Classifier,
		availability: deps.Availability,
		sessions:     deps.Sessions,
		guard:        deps.Guard,
		responder:    deps.Responder,
		history:      deps.History,
		archiver:     deps.Archiver,
		frontendURL:  deps.FrontendURL,
		logger:       utils.GetLogger().Named("chat"),
		now:          time.Now,
	}
}
