package nlu

import (
	"testing"

	"staybot/models"
)

func TestClassifyCoreCategories(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"payment methods", "cuáles son los métodos de pago?", CategoryPaymentMethods},
		{"pricing", "cuánto cuesta la noche?", CategoryPricing},
		{"reservation interest", "quiero la suite Martina", CategoryReservationProcess},
		{"reservation explicit", "cómo puedo reservar una habitación?", CategoryReservationProcess},
		{"greeting falls through", "hola, qué tal?", CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message, models.QueryParameters{}, Context{})
			if got.Category != tt.want {
				t.Errorf("Classify(%q) = %s (%.2f), want %s", tt.message, got.Category, got.Score, tt.want)
			}
		})
	}
}

func TestClassifyInterceptedGuestReply(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("4", models.QueryParameters{Guests: 4, InterceptedGuestReply: true}, Context{})
	if got.Category != CategoryReservationProcess || got.Score != 1 {
		t.Errorf("intercepted reply = %s (%.2f), want %s (1.00)", got.Category, got.Score, CategoryReservationProcess)
	}
}

func TestClassifySuppressesAnsweredTopic(t *testing.T) {
	c := NewClassifier()

	cctx := Context{
		RecentMessages: []models.ChatTurnMessage{
			{Role: "user", Message: "tienen lugar?"},
			{Role: "assistant", Message: "Sí, tenemos habitaciones disponibles y hay lugar libre para esas fechas."},
		},
	}

	// A booking follow-up without fresh dates must land in the reservation
	// flow instead of re-answering availability.
	got := c.Classify("perfecto, quiero reservar", models.QueryParameters{}, cctx)
	if got.Category != CategoryReservationProcess {
		t.Errorf("follow-up = %s, want %s", got.Category, CategoryReservationProcess)
	}

	// Fresh dates reopen the topic.
	got = c.Classify("hay disponibilidad, tienen lugar para el 11 de julio?", models.QueryParameters{}, cctx)
	if got.Category != CategoryAvailability {
		t.Errorf("fresh dates = %s, want %s", got.Category, CategoryAvailability)
	}
}

func TestBestCategoryTieBreak(t *testing.T) {
	scores := map[Category]float64{
		CategoryAvailability:       0.5,
		CategoryReservationProcess: 0.5,
	}
	if got := bestCategory(scores); got != CategoryReservationProcess {
		t.Errorf("tie resolved to %s, want %s", got, CategoryReservationProcess)
	}

	scores = map[Category]float64{
		CategoryAvailability: 0.6,
		CategoryPolicies:     0.2,
	}
	if got := bestCategory(scores); got != CategoryAvailability {
		t.Errorf("max resolved to %s, want %s", got, CategoryAvailability)
	}
}

func TestResolveAmbiguousService(t *testing.T) {
	room := models.RoomCandidate{ID: "r1", Name: "Suite Martina", Capacity: 2}

	tests := []struct {
		name    string
		message string
		cctx    Context
		want    Category
		wantOK  bool
	}{
		{
			name:    "client widget with room",
			message: "qué incluye?",
			cctx:    Context{ClientQueryPresent: true, ClientRoom: "Suite Martina"},
			want:    CategoryRoomServices,
			wantOK:  true,
		},
		{
			name:    "client widget room cleared",
			message: "qué incluye?",
			cctx:    Context{ClientQueryPresent: true},
			want:    CategoryLodgingServices,
			wantOK:  true,
		},
		{
			name:    "assistant named a room",
			message: "con qué comodidades cuenta?",
			cctx: Context{RecentMessages: []models.ChatTurnMessage{
				{Role: "assistant", Message: "La suite Martina tiene vista al lago."},
			}},
			want:   CategoryRoomServices,
			wantOK: true,
		},
		{
			name:    "session room",
			message: "qué incluye?",
			cctx:    Context{SessionRoom: "Suite Martina"},
			want:    CategoryRoomServices,
			wantOK:  true,
		},
		{
			name:    "single available room",
			message: "qué incluye?",
			cctx:    Context{AvailableRooms: []models.RoomCandidate{room}},
			want:    CategoryRoomServices,
			wantOK:  true,
		},
		{
			name:    "no signals defaults to lodging",
			message: "qué incluye?",
			cctx:    Context{},
			want:    CategoryLodgingServices,
			wantOK:  true,
		},
		{
			name:    "explicit lodging scope is not ambiguous",
			message: "qué servicios tiene el hospedaje?",
			cctx:    Context{ClientQueryPresent: true, ClientRoom: "Suite Martina"},
			wantOK:  false,
		},
		{
			name:    "price words bail out",
			message: "qué precio incluye?",
			cctx:    Context{},
			wantOK:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveAmbiguousService(tt.message, tt.cctx)
			if ok != tt.wantOK {
				t.Fatalf("resolveAmbiguousService(%q) ok = %v, want %v", tt.message, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("resolveAmbiguousService(%q) = %s, want %s", tt.message, got, tt.want)
			}
		})
	}
}

func TestTopicAnswered(t *testing.T) {
	keywords := topicKeywords[CategoryAvailability]

	answered := []models.ChatTurnMessage{
		{Role: "assistant", Message: "Tenemos habitaciones disponibles, hay lugar libre."},
	}
	if !topicAnswered(answered, keywords) {
		t.Error("two keyword hits in an assistant message should mark the topic answered")
	}

	oneHit := []models.ChatTurnMessage{
		{Role: "assistant", Message: "El desayuno está disponible desde las 8."},
	}
	if topicAnswered(oneHit, keywords) {
		t.Error("a single keyword hit should not mark the topic answered")
	}

	userOnly := []models.ChatTurnMessage{
		{Role: "user", Message: "hay habitaciones disponibles, lugar libre?"},
	}
	if topicAnswered(userOnly, keywords) {
		t.Error("user messages must not mark topics answered")
	}
}
