package chat

import (
	"context"
	"fmt"

	"staybot/models"
	"staybot/services/nlu"
	"staybot/services/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fallbackReply is used when the response generator is missing or fails.
const fallbackReply = "Lo siento, no pude generar una respuesta adecuada. ¿Podrías reformular tu consulta?"

// ProcessMessage runs one turn through the full pipeline. It never returns
// an error for pipeline-internal conditions; the worst outcome is a general
// decision with a fallback reply.
func (s *DefaultChatService) ProcessMessage(ctx context.Context, lodgingID string, req models.ChatRequest) (*models.ChatResponse, error) {
	start := s.now()

	conversationID := req.Token
	if conversationID == "" {
		conversationID = req.SessionID
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	normalized := s.guard.Normalize(req.Message)
	if resp, ok := s.guard.Replay(ctx, conversationID, normalized); ok {
		s.logger.Info("duplicate message replayed",
			zap.String("conversationID", conversationID))
		return resp, nil
	}

	key := session.Key{LodgingID: lodgingID, UserID: req.UserID, ConversationID: conversationID}
	mem, err := s.sessions.Get(ctx, key)
	if err != nil {
		s.logger.Warn("session read failed, continuing without memory", zap.Error(err))
		mem = nil
	}

	var recent []models.ChatTurnMessage
	var clientQuery *models.CurrentQuery
	if req.Context != nil {
		recent = req.Context.ConversationHistory
		clientQuery = req.Context.CurrentQuery
	}

	// Extraction, or interception of a bare guest-count reply.
	var params models.QueryParameters
	if guests, ok := interceptGuestReply(req.Message, recent); ok {
		params = models.QueryParameters{Guests: guests, InterceptedGuestReply: true}
	} else {
		params = s.extractor.Extract(req.Message)
	}

	convCtx := assembleContext(conversationID, params, req.Context, mem)
	contextUsed := mem != nil || req.Context != nil

	// A date in the past is the one fatal signal: short-circuit before any
	// further context building.
	if pde := s.checkPastDates(convCtx); pde != nil {
		s.logger.Info("past date requested", zap.String("date", pde.Date))
		decision := models.Decision{
			Category: string(nlu.CategoryGeneral),
			Context:  convCtx,
			PastDate: &models.PastDateInfo{Date: pde.Date, Today: pde.Today},
			Message:  req.Message,
		}
		return s.finishTurn(ctx, lodgingID, conversationID, normalized, req, decision, contextUsed, start.UnixMilli()), nil
	}

	rooms := s.fetchRooms(ctx, lodgingID)
	convCtx.Rooms = rooms

	cctx := nlu.Context{
		RecentMessages:               recent,
		ClientQueryPresent:           clientQuery != nil,
		SessionConfirmedAvailability: convCtx.ConfirmedAvailability,
		AvailableRooms:               rooms,
	}
	if clientQuery != nil {
		cctx.ClientRoom = clientQuery.Room
		if clientQuery.RoomCleared {
			cctx.ClientRoom = ""
		}
	}
	if mem != nil {
		cctx.SessionRoom = mem.LastRoom
	}

	result := s.classifier.Classify(req.Message, params, cctx)
	category := result.Category
	s.logger.Debug("message classified",
		zap.String("category", string(category)),
		zap.Float64("score", result.Score))

	s.attachAvailability(ctx, lodgingID, convCtx)

	// A turn that only contributes a missing field (dates or guests) while
	// partial reservation state is pending continues the reservation flow,
	// whatever the raw classification said.
	if !isReservationCategory(category) && mem != nil && !mem.IsEmpty() &&
		(params.HasDates || params.Guests > 0) {
		category = nlu.CategoryReservationProcess
	}

	var rcase *models.ReservationCase
	switch category {
	case nlu.CategoryReservationProcess,
		nlu.CategoryMultipleRoomReservation,
		nlu.CategoryCapacityExceededSpecific,
		nlu.CategoryCapacityExceededGeneral:
		var partial models.SessionMemory
		rcase, partial = s.evaluateReservation(ctx, lodgingID, req.Message, category, convCtx, convCtx.Rooms)
		if rcase.Kind != models.CaseReady && !partial.IsEmpty() {
			if err := s.sessions.Merge(ctx, key, partial); err != nil {
				s.logger.Warn("persisting partial reservation state failed", zap.Error(err))
			}
		}
	}

	// Informational combinations for over-capacity groups.
	if needsCombinations(category, rcase) && convCtx.PendingGuests > 0 {
		convCtx.Combinations = EnumerateCombinations(convCtx.Rooms, convCtx.PendingGuests)
	}

	decision := models.Decision{
		Category: string(category),
		Case:     rcase,
		Context:  convCtx,
		Message:  req.Message,
	}
	return s.finishTurn(ctx, lodgingID, conversationID, normalized, req, decision, contextUsed, start.UnixMilli()), nil
}

// GetUserHistory returns the persisted transcript, newest first.
func (s *DefaultChatService) GetUserHistory(ctx context.Context, lodgingID, userID string, page, limit int) ([]models.HistoryEntry, error) {
	if s.history == nil {
		return nil, fmt.Errorf("chat history is not configured")
	}
	return s.history.GetByUser(ctx, lodgingID, userID, page, limit)
}

// fetchRooms loads the lodging's room inventory; failures degrade to an
// empty set.
func (s *DefaultChatService) fetchRooms(ctx context.Context, lodgingID string) []models.RoomCandidate {
	if s.availability == nil {
		return nil
	}
	rooms, err := s.availability.GetRooms(ctx, lodgingID)
	if err != nil {
		s.logger.Warn("room inventory lookup failed", zap.Error(err))
		return nil
	}
	return rooms
}

// attachAvailability enriches the context with a date-range check and, when
// the turn asks about months, month-level availability.
func (s *DefaultChatService) attachAvailability(ctx context.Context, lodgingID string, convCtx *models.ConversationContext) {
	if s.availability == nil {
		return
	}
	if convCtx.ConfirmedDates != nil {
		avail, err := s.availability.CheckAvailability(ctx, lodgingID, convCtx.ConfirmedDates.CheckIn, convCtx.ConfirmedDates.CheckOut)
		if err != nil {
			s.logger.Warn("availability check failed", zap.Error(err))
		} else {
			convCtx.Availability = avail
			if avail.Available {
				convCtx.ConfirmedAvailability = true
				// Narrow the working set to what is actually free.
				convCtx.Rooms = avail.Rooms
			}
		}
	}
	if convCtx.Params.IsMonthlyQuery {
		months := convCtx.Params.MultipleMonths
		if convCtx.Params.SingleMonth != "" {
			months = []string{convCtx.Params.SingleMonth}
		}
		for _, month := range months {
			monthly, err := s.availability.GetMonthlyAvailability(ctx, lodgingID, month)
			if err != nil {
				s.logger.Warn("monthly availability lookup failed",
					zap.String("month", month), zap.Error(err))
				continue
			}
			convCtx.Monthly = append(convCtx.Monthly, *monthly)
		}
	}
}

func isReservationCategory(category nlu.Category) bool {
	switch category {
	case nlu.CategoryReservationProcess,
		nlu.CategoryMultipleRoomReservation,
		nlu.CategoryCapacityExceededSpecific,
		nlu.CategoryCapacityExceededGeneral:
		return true
	}
	return false
}

func needsCombinations(category nlu.Category, rcase *models.ReservationCase) bool {
	if category == nlu.CategoryCapacityExceededGeneral || category == nlu.CategoryMultiRoomServices {
		return true
	}
	return rcase != nil && rcase.Kind == models.CaseCapacityExceeded
}

// finishTurn renders the reply, records the turn for replay, and archives
// the transcript when asked to.
func (s *DefaultChatService) finishTurn(
	ctx context.Context,
	lodgingID, conversationID, normalized string,
	req models.ChatRequest,
	decision models.Decision,
	contextUsed bool,
	startMs int64,
) *models.ChatResponse {
	text := fallbackReply
	if s.responder != nil {
		generated, err := s.responder.Generate(ctx, decision)
		if err != nil {
			s.logger.Warn("response generation failed, using fallback", zap.Error(err))
		} else if generated != "" {
			text = generated
		}
	}

	resp := &models.ChatResponse{
		Response:        text,
		SessionID:       conversationID,
		LodgingID:       lodgingID,
		Category:        decision.Category,
		ReservationCase: decision.Case,
		ResponseTimeMs:  s.now().UnixMilli() - startMs,
		ContextUsed:     contextUsed,
	}

	s.guard.Record(ctx, conversationID, normalized, *resp)

	if req.SaveToHistory && s.archiver != nil {
		entry := models.HistoryEntry{
			LodgingID:      lodgingID,
			UserID:         req.UserID,
			ConversationID: conversationID,
			UserMessage:    req.Message,
			BotResponse:    text,
			Category:       decision.Category,
		}
		if err := s.archiver.Archive(entry); err != nil {
			s.logger.Warn("archiving chat turn failed", zap.Error(err))
		}
	}

	return resp
}
