package chat

import (
	"context"
	"time"

	"staybot/models"
	"staybot/services/nlu"

	"go.uber.org/zap"
)

// evaluateReservation runs the per-turn reservation state machine: resolve
// dates, room and guests across the merged context, then settle on exactly
// one case. It also returns the partial state to persist when the turn does
// not end Ready.
func (s *DefaultChatService) evaluateReservation(
	ctx context.Context,
	lodgingID, message string,
	category nlu.Category,
	convCtx *models.ConversationContext,
	rooms []models.RoomCandidate,
) (*models.ReservationCase, models.SessionMemory) {
	var partial models.SessionMemory

	// 1. Dates. A single date books one night.
	dates := convCtx.ConfirmedDates
	if dates != nil && dates.CheckOut == dates.CheckIn {
		if out, ok := nextDay(dates.CheckIn); ok {
			dates = &models.DateRange{CheckIn: dates.CheckIn, CheckOut: out}
		}
	}
	if dates != nil {
		partial.LastDates = dates
	}

	// 2. Room.
	room, explicit, haveRoom := identifyRoom(message, convCtx.RecentMessages, convCtx, rooms)
	if haveRoom {
		partial.LastRoom = room.Name
	}

	// 3. Guests.
	guests := convCtx.PendingGuests
	if guests == 0 {
		guests = recoverGuestsFromHistory(convCtx.RecentMessages)
	}
	if guests > 0 {
		partial.LastGuests = guests
	}

	// Multi-room bookings bypass the single-room capacity check and commit
	// to a greedy combination over the available set.
	if category == nlu.CategoryMultipleRoomReservation {
		return s.evaluateMultiRoom(lodgingID, dates, guests, rooms), partial
	}

	if haveRoom && dates != nil && guests > 0 {
		capacity := s.resolveCapacity(ctx, room)
		if capacity > 0 && guests > capacity {
			return &models.ReservationCase{
				Kind:            models.CaseCapacityExceeded,
				RoomName:        room.Name,
				MaxCapacity:     capacity,
				RequestedGuests: guests,
				ExplicitRoom:    explicit,
			}, partial
		}
		checkout := BuildCheckoutRef(s.frontendURL, lodgingID, []string{room.ID}, dates.CheckIn, dates.CheckOut, guests)
		return &models.ReservationCase{Kind: models.CaseReady, Checkout: checkout}, partial
	}

	switch {
	case !haveRoom:
		return &models.ReservationCase{Kind: models.CaseMissingRoom}, partial
	case dates == nil:
		return &models.ReservationCase{Kind: models.CaseMissingDates}, partial
	case guests == 0:
		return &models.ReservationCase{Kind: models.CaseMissingGuests}, partial
	}
	return &models.ReservationCase{Kind: models.CaseGeneralError}, partial
}

func (s *DefaultChatService) evaluateMultiRoom(lodgingID string, dates *models.DateRange, guests int, rooms []models.RoomCandidate) *models.ReservationCase {
	switch {
	case guests == 0:
		return &models.ReservationCase{Kind: models.CaseMissingGuests}
	case dates == nil:
		return &models.ReservationCase{Kind: models.CaseMissingDates}
	}
	combo := GreedyCombination(rooms, guests)
	if combo == nil {
		total := 0
		for _, room := range rooms {
			total += room.Capacity
		}
		return &models.ReservationCase{
			Kind:            models.CaseCapacityExceeded,
			MaxCapacity:     total,
			RequestedGuests: guests,
		}
	}
	ids := make([]string, 0, len(combo))
	for _, room := range combo {
		ids = append(ids, room.ID)
	}
	checkout := BuildCheckoutRef(s.frontendURL, lodgingID, ids, dates.CheckIn, dates.CheckOut, guests)
	return &models.ReservationCase{Kind: models.CaseReady, Checkout: checkout}
}

// resolveCapacity prefers the capacity already present in the availability
// set, falling back to the backend. A failed lookup returns 0: the check is
// skipped and the booking proceeds, per the proceed-with-partial-data rule.
func (s *DefaultChatService) resolveCapacity(ctx context.Context, room models.RoomCandidate) int {
	if room.Capacity > 0 {
		return room.Capacity
	}
	if room.ID == "" || s.availability == nil {
		return 0
	}
	capacity, err := s.availability.GetRoomCapacity(ctx, room.ID)
	if err != nil {
		s.logger.Warn("room capacity lookup failed, skipping validation",
			zap.String("roomID", room.ID), zap.Error(err))
		return 0
	}
	return capacity
}

// checkPastDates returns the fatal past-date signal when any resolved date
// lies before today.
func (s *DefaultChatService) checkPastDates(convCtx *models.ConversationContext) *PastDateError {
	if convCtx.ConfirmedDates == nil {
		return nil
	}
	today := s.now().Format("2006-01-02")
	for _, d := range []string{convCtx.ConfirmedDates.CheckIn, convCtx.ConfirmedDates.CheckOut} {
		if d != "" && d < today {
			return &PastDateError{Date: d, Today: today}
		}
	}
	return nil
}

func nextDay(date string) (string, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02"), true
}
