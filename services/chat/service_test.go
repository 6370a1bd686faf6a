package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybot/models"
	"staybot/services/nlu"
	"staybot/services/session"
	"staybot/utils"
)

// fakeSessions is an in-memory session.Store.
type fakeSessions struct {
	data map[string]*models.SessionMemory
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: map[string]*models.SessionMemory{}}
}

func (s *fakeSessions) Get(_ context.Context, key session.Key) (*models.SessionMemory, error) {
	mem, ok := s.data[key.String()]
	if !ok {
		return nil, nil
	}
	cp := *mem
	return &cp, nil
}

func (s *fakeSessions) Merge(_ context.Context, key session.Key, partial models.SessionMemory) error {
	current, ok := s.data[key.String()]
	if !ok {
		current = &models.SessionMemory{}
		s.data[key.String()] = current
	}
	current.Merge(partial)
	return nil
}

func (s *fakeSessions) Clear(_ context.Context, key session.Key) error {
	delete(s.data, key.String())
	return nil
}

// fakeProvider is an in-memory availability.Provider.
type fakeProvider struct {
	rooms       []models.RoomCandidate
	capacityErr error
}

func (p *fakeProvider) GetRooms(_ context.Context, _ string) ([]models.RoomCandidate, error) {
	return p.rooms, nil
}

func (p *fakeProvider) GetRoomCapacity(_ context.Context, roomID string) (int, error) {
	if p.capacityErr != nil {
		return 0, p.capacityErr
	}
	for _, room := range p.rooms {
		if room.ID == roomID {
			return room.Capacity, nil
		}
	}
	return 0, errors.New("unknown room")
}

func (p *fakeProvider) CheckAvailability(_ context.Context, _ string, checkIn, checkOut string) (*models.AvailabilityResult, error) {
	return &models.AvailabilityResult{
		Available: len(p.rooms) > 0,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Rooms:     p.rooms,
	}, nil
}

func (p *fakeProvider) GetMonthlyAvailability(_ context.Context, _ string, month string) (*models.MonthlyAvailability, error) {
	return &models.MonthlyAvailability{Month: month, HasAvailability: len(p.rooms) > 0, AvailableRooms: len(p.rooms)}, nil
}

// fakeGenerator records the decisions it is asked to phrase.
type fakeGenerator struct {
	calls int
	last  models.Decision
}

func (g *fakeGenerator) Generate(_ context.Context, decision models.Decision) (string, error) {
	g.calls++
	g.last = decision
	return "respuesta generada", nil
}

func testTime() time.Time {
	return time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(provider *fakeProvider, sessions *fakeSessions, gen *fakeGenerator) *DefaultChatService {
	svc := NewDefaultChatService(Deps{
		Extractor:    nlu.NewExtractor(),
		Classifier:   nlu.NewClassifier(),
		Availability: provider,
		Sessions:     sessions,
		Guard: &IdempotencyGuard{
			store:  newMemIdemStore(),
			logger: utils.GetLogger(),
			now:    testTime,
		},
		Responder:   gen,
		FrontendURL: "http://localhost:3000",
	})
	svc.now = testTime
	return svc
}

func TestEvaluateReservationReady(t *testing.T) {
	svc := newTestService(&fakeProvider{rooms: testRooms()}, newFakeSessions(), &fakeGenerator{})

	convCtx := &models.ConversationContext{
		ConfirmedDates:   &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"},
		SelectedRoomName: "Suite Martina",
		PendingGuests:    2,
	}
	rcase, partial := svc.evaluateReservation(context.Background(), "h1", "quiero reservar", nlu.CategoryReservationProcess, convCtx, testRooms())

	if rcase.Kind != models.CaseReady {
		t.Fatalf("kind = %s, want %s", rcase.Kind, models.CaseReady)
	}
	checkout := rcase.Checkout
	if checkout == nil || len(checkout.RoomIDs) != 1 || checkout.RoomIDs[0] != "r1" {
		t.Errorf("checkout = %+v, want room r1", checkout)
	}
	if checkout.CheckIn != "2026-07-11" || checkout.CheckOut != "2026-07-14" || checkout.Guests != 2 {
		t.Errorf("checkout = %+v, want the confirmed stay", checkout)
	}
	if partial.LastRoom != "Suite Martina" || partial.LastGuests != 2 || partial.LastDates == nil {
		t.Errorf("partial = %+v, want full state captured", partial)
	}
}

func TestEvaluateReservationSingleDateBooksOneNight(t *testing.T) {
	svc := newTestService(&fakeProvider{rooms: testRooms()}, newFakeSessions(), &fakeGenerator{})

	convCtx := &models.ConversationContext{
		ConfirmedDates:   &models.DateRange{CheckIn: "2026-07-20", CheckOut: "2026-07-20"},
		SelectedRoomName: "Suite Martina",
		PendingGuests:    2,
	}
	rcase, _ := svc.evaluateReservation(context.Background(), "h1", "reservo", nlu.CategoryReservationProcess, convCtx, testRooms())

	if rcase.Kind != models.CaseReady {
		t.Fatalf("kind = %s, want %s", rcase.Kind, models.CaseReady)
	}
	if rcase.Checkout.CheckIn != "2026-07-20" || rcase.Checkout.CheckOut != "2026-07-21" {
		t.Errorf("stay = %s..%s, want one night from the single date", rcase.Checkout.CheckIn, rcase.Checkout.CheckOut)
	}
}

func TestEvaluateReservationMissingLadder(t *testing.T) {
	svc := newTestService(&fakeProvider{rooms: testRooms()}, newFakeSessions(), &fakeGenerator{})
	dates := &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"}

	tests := []struct {
		name    string
		convCtx *models.ConversationContext
		want    models.CaseKind
	}{
		{
			name:    "room missing comes first",
			convCtx: &models.ConversationContext{ConfirmedDates: dates, PendingGuests: 2},
			want:    models.CaseMissingRoom,
		},
		{
			name:    "then dates",
			convCtx: &models.ConversationContext{SelectedRoomName: "Suite Martina", PendingGuests: 2},
			want:    models.CaseMissingDates,
		},
		{
			name:    "then guests",
			convCtx: &models.ConversationContext{SelectedRoomName: "Suite Martina", ConfirmedDates: dates},
			want:    models.CaseMissingGuests,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rcase, _ := svc.evaluateReservation(context.Background(), "h1", "quiero avanzar", nlu.CategoryReservationProcess, tt.convCtx, testRooms())
			if rcase.Kind != tt.want {
				t.Errorf("kind = %s, want %s", rcase.Kind, tt.want)
			}
		})
	}
}

func TestEvaluateReservationCapacityExceeded(t *testing.T) {
	svc := newTestService(&fakeProvider{rooms: testRooms()}, newFakeSessions(), &fakeGenerator{})
	dates := &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"}

	// Room named in the current message: the visitor insists on it.
	convCtx := &models.ConversationContext{ConfirmedDates: dates, PendingGuests: 5}
	rcase, _ := svc.evaluateReservation(context.Background(), "h1", "quiero la suite Martina", nlu.CategoryReservationProcess, convCtx, testRooms())
	if rcase.Kind != models.CaseCapacityExceeded || !rcase.ExplicitRoom {
		t.Errorf("case = %+v, want explicit capacity_exceeded", rcase)
	}
	if rcase.MaxCapacity != 2 || rcase.RequestedGuests != 5 {
		t.Errorf("case = %+v, want capacity 2 for 5 guests", rcase)
	}

	// Room inferred from the widget: not explicit.
	convCtx = &models.ConversationContext{ConfirmedDates: dates, PendingGuests: 5, SelectedRoomName: "Suite Martina"}
	rcase, _ = svc.evaluateReservation(context.Background(), "h1", "quiero avanzar", nlu.CategoryReservationProcess, convCtx, testRooms())
	if rcase.Kind != models.CaseCapacityExceeded || rcase.ExplicitRoom {
		t.Errorf("case = %+v, want inferred capacity_exceeded", rcase)
	}
}

func TestEvaluateReservationSkipsFailedCapacityLookup(t *testing.T) {
	// The room is known only by name: no capacity anywhere, and the backend
	// lookup fails. The booking proceeds on partial data.
	provider := &fakeProvider{
		rooms:       []models.RoomCandidate{{ID: "r9", Name: "Suite Niebla"}},
		capacityErr: errors.New("backend down"),
	}
	svc := newTestService(provider, newFakeSessions(), &fakeGenerator{})

	convCtx := &models.ConversationContext{
		ConfirmedDates:   &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"},
		SelectedRoomName: "Suite Niebla",
		PendingGuests:    6,
	}
	rcase, _ := svc.evaluateReservation(context.Background(), "h1", "reservo", nlu.CategoryReservationProcess, convCtx, provider.rooms)
	if rcase.Kind != models.CaseReady {
		t.Errorf("kind = %s, want %s when capacity is unknown", rcase.Kind, models.CaseReady)
	}
}

func TestEvaluateMultiRoomReservation(t *testing.T) {
	svc := newTestService(&fakeProvider{rooms: testRooms()}, newFakeSessions(), &fakeGenerator{})
	dates := &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"}

	convCtx := &models.ConversationContext{ConfirmedDates: dates, PendingGuests: 6}
	rcase, _ := svc.evaluateReservation(context.Background(), "h1", "necesitamos varias habitaciones", nlu.CategoryMultipleRoomReservation, convCtx, testRooms())
	if rcase.Kind != models.CaseReady {
		t.Fatalf("kind = %s, want %s", rcase.Kind, models.CaseReady)
	}
	if got := rcase.Checkout.RoomIDs; len(got) != 2 || got[0] != "r2" || got[1] != "r3" {
		t.Errorf("rooms = %v, want the greedy pick r2,r3", got)
	}

	convCtx = &models.ConversationContext{ConfirmedDates: dates, PendingGuests: 20}
	rcase, _ = svc.evaluateReservation(context.Background(), "h1", "necesitamos varias habitaciones", nlu.CategoryMultipleRoomReservation, convCtx, testRooms())
	if rcase.Kind != models.CaseCapacityExceeded || rcase.MaxCapacity != 9 {
		t.Errorf("case = %+v, want capacity_exceeded at total capacity 9", rcase)
	}
}

func TestCheckPastDates(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeSessions(), &fakeGenerator{})

	past := &models.ConversationContext{ConfirmedDates: &models.DateRange{CheckIn: "2026-06-20", CheckOut: "2026-06-22"}}
	if pde := svc.checkPastDates(past); pde == nil || pde.Date != "2026-06-20" {
		t.Errorf("got %+v, want a past-date signal for 2026-06-20", pde)
	}

	future := &models.ConversationContext{ConfirmedDates: &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"}}
	if pde := svc.checkPastDates(future); pde != nil {
		t.Errorf("got %+v, want nil for a future stay", pde)
	}

	if pde := svc.checkPastDates(&models.ConversationContext{}); pde != nil {
		t.Errorf("got %+v, want nil without dates", pde)
	}
}

func TestProcessMessageReservationScenario(t *testing.T) {
	provider := &fakeProvider{rooms: testRooms()}
	sessions := newFakeSessions()
	gen := &fakeGenerator{}
	svc := newTestService(provider, sessions, gen)
	ctx := context.Background()

	// Turn 1: the visitor names a room but nothing else.
	resp, err := svc.ProcessMessage(ctx, "h1", models.ChatRequest{
		UserID:  "u1",
		Token:   "conv1",
		Message: "quiero la suite Martina",
	})
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if resp.Category != string(nlu.CategoryReservationProcess) {
		t.Fatalf("turn 1 category = %s, want %s", resp.Category, nlu.CategoryReservationProcess)
	}
	if resp.ReservationCase == nil || resp.ReservationCase.Kind != models.CaseMissingDates {
		t.Fatalf("turn 1 case = %+v, want missing_dates", resp.ReservationCase)
	}

	// The partial state survived the turn.
	key := session.Key{LodgingID: "h1", UserID: "u1", ConversationID: "conv1"}
	mem, _ := sessions.Get(ctx, key)
	if mem == nil || mem.LastRoom != "Suite Martina" {
		t.Fatalf("session memory = %+v, want the room remembered", mem)
	}

	// Turn 2: only dates arrive; the room comes from memory and the turn
	// continues the pending reservation.
	resp, err = svc.ProcessMessage(ctx, "h1", models.ChatRequest{
		UserID:  "u1",
		Token:   "conv1",
		Message: "del 1 al 3 de agosto",
	})
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if resp.ReservationCase == nil || resp.ReservationCase.Kind != models.CaseMissingGuests {
		t.Fatalf("turn 2 case = %+v, want missing_guests", resp.ReservationCase)
	}
	if !resp.ContextUsed {
		t.Error("turn 2 should report context usage")
	}

	// Turn 3: the guest count completes the reservation started two turns ago.
	resp, err = svc.ProcessMessage(ctx, "h1", models.ChatRequest{
		UserID:  "u1",
		Token:   "conv1",
		Message: "para 2 personas",
	})
	if err != nil {
		t.Fatalf("turn 3: %v", err)
	}
	if resp.ReservationCase == nil || resp.ReservationCase.Kind != models.CaseReady {
		t.Fatalf("turn 3 case = %+v, want ready", resp.ReservationCase)
	}
	checkout := resp.ReservationCase.Checkout
	if checkout.RoomIDs[0] != "r1" || checkout.CheckIn != "2026-08-01" || checkout.CheckOut != "2026-08-03" || checkout.Guests != 2 {
		t.Errorf("checkout = %+v, want Suite Martina for the stay resolved across turns", checkout)
	}
}

func TestProcessMessageInterceptsGuestReply(t *testing.T) {
	provider := &fakeProvider{rooms: testRooms()}
	sessions := newFakeSessions()
	gen := &fakeGenerator{}
	svc := newTestService(provider, sessions, gen)
	ctx := context.Background()

	key := session.Key{LodgingID: "h1", UserID: "u1", ConversationID: "conv1"}
	if err := sessions.Merge(ctx, key, models.SessionMemory{
		LastRoom:  "Suite Martina",
		LastDates: &models.DateRange{CheckIn: "2026-07-11", CheckOut: "2026-07-14"},
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.ProcessMessage(ctx, "h1", models.ChatRequest{
		UserID:  "u1",
		Token:   "conv1",
		Message: "4",
		Context: &models.ClientContext{
			ConversationHistory: []models.ChatTurnMessage{
				{Role: "assistant", Message: "¿Para cuántas personas sería la reserva?"},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Category != string(nlu.CategoryReservationProcess) {
		t.Fatalf("category = %s, want %s", resp.Category, nlu.CategoryReservationProcess)
	}
	rcase := resp.ReservationCase
	if rcase == nil || rcase.Kind != models.CaseCapacityExceeded {
		t.Fatalf("case = %+v, want capacity_exceeded for 4 guests in a 2-person suite", rcase)
	}
	if rcase.RequestedGuests != 4 || rcase.MaxCapacity != 2 {
		t.Errorf("case = %+v, want 4 requested against capacity 2", rcase)
	}
	if len(gen.last.Context.Combinations) == 0 {
		t.Error("over-capacity turns should offer room combinations")
	}
}

func TestProcessMessagePastDateShortCircuits(t *testing.T) {
	provider := &fakeProvider{rooms: testRooms()}
	gen := &fakeGenerator{}
	svc := newTestService(provider, newFakeSessions(), gen)

	resp, err := svc.ProcessMessage(context.Background(), "h1", models.ChatRequest{
		UserID:  "u1",
		Token:   "conv1",
		Message: "quiero reservar del 11 al 14 de junio",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Category != string(nlu.CategoryGeneral) {
		t.Errorf("category = %s, want %s", resp.Category, nlu.CategoryGeneral)
	}
	if resp.ReservationCase != nil {
		t.Errorf("case = %+v, want none for a past stay", resp.ReservationCase)
	}
	if gen.last.PastDate == nil || gen.last.PastDate.Date != "2026-06-11" {
		t.Errorf("decision past date = %+v, want 2026-06-11", gen.last.PastDate)
	}
}

func TestProcessMessageReplaysDuplicates(t *testing.T) {
	provider := &fakeProvider{rooms: testRooms()}
	gen := &fakeGenerator{}
	svc := newTestService(provider, newFakeSessions(), gen)
	ctx := context.Background()

	req := models.ChatRequest{UserID: "u1", Token: "conv1", Message: "Quiero la suite Martina"}
	first, err := svc.ProcessMessage(ctx, "h1", req)
	if err != nil {
		t.Fatal(err)
	}

	// Same message again, inside the replay window (the clock is fixed).
	second, err := svc.ProcessMessage(ctx, "h1", req)
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls != 1 {
		t.Errorf("generator ran %d times, want 1", gen.calls)
	}
	if first.Response != second.Response || first.Category != second.Category {
		t.Errorf("replayed response differs: %+v vs %+v", first, second)
	}
}

func TestProcessMessageGeneratesConversationID(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeSessions(), &fakeGenerator{})

	resp, err := svc.ProcessMessage(context.Background(), "h1", models.ChatRequest{UserID: "u1", Message: "hola"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Error("a turn without a token must mint a session id")
	}
}

func TestProcessMessageFallbackWithoutResponder(t *testing.T) {
	svc := NewDefaultChatService(Deps{
		Extractor:  nlu.NewExtractor(),
		Classifier: nlu.NewClassifier(),
		Sessions:   newFakeSessions(),
		Guard: &IdempotencyGuard{
			store:  newMemIdemStore(),
			logger: utils.GetLogger(),
			now:    testTime,
		},
		FrontendURL: "http://localhost:3000",
	})
	svc.now = testTime

	resp, err := svc.ProcessMessage(context.Background(), "h1", models.ChatRequest{UserID: "u1", Message: "hola"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Response != fallbackReply {
		t.Errorf("response = %q, want the fallback reply", resp.Response)
	}
}
