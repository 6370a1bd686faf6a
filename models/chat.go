package models

import "time"

// ChatTurnMessage is one message of the rolling conversation window the
// frontend replays with each request.
type ChatTurnMessage struct {
	Role      string `json:"role"` // "user" or "assistant"
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// DateSelection mirrors the frontend's current date picker state.
type DateSelection struct {
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
	SingleDate string `json:"singleDate,omitempty"`
}

// CurrentQuery is the frontend's live widget state: dates picked in the
// calendar, the room card the visitor has open, and whether the last
// availability search succeeded.
type CurrentQuery struct {
	Dates            *DateSelection `json:"dates,omitempty"`
	Room             string         `json:"habitacion,omitempty"`
	RoomCleared      bool           `json:"habitacionCleared,omitempty"`
	Guests           int            `json:"huespedes,omitempty"`
	LastAvailability bool           `json:"lastAvailability,omitempty"`
}

// ClientContext is the structured context the frontend sends alongside the
// message text.
type ClientContext struct {
	ConversationHistory []ChatTurnMessage `json:"conversationHistory,omitempty"`
	CurrentQuery        *CurrentQuery     `json:"currentQuery,omitempty"`
}

// ChatRequest is the inbound payload for one conversational turn.
type ChatRequest struct {
	UserID        string         `json:"userId"`
	Message       string         `json:"message" binding:"required"`
	Token         string         `json:"token,omitempty"`
	SessionID     string         `json:"sessionId,omitempty"`
	Context       *ClientContext `json:"context,omitempty"`
	SaveToHistory bool           `json:"saveToHistory,omitempty"`
}

// ChatResponse is the outbound payload for one conversational turn.
type ChatResponse struct {
	Response        string           `json:"response"`
	SessionID       string           `json:"sessionId"`
	LodgingID       string           `json:"lodgingId"`
	Category        string           `json:"category"`
	ReservationCase *ReservationCase `json:"reservationCase,omitempty"`
	ResponseTimeMs  int64            `json:"responseTimeMs"`
	ContextUsed     bool             `json:"contextUsed"`
}

// ConversationContext is the merged per-turn view the reservation flow and
// the response generator operate on.
type ConversationContext struct {
	ConversationID        string                `json:"conversationId"`
	RecentMessages        []ChatTurnMessage     `json:"recentMessages,omitempty"`
	SelectedRoomName      string                `json:"selectedRoomName,omitempty"`
	RoomCleared           bool                  `json:"roomCleared,omitempty"`
	ConfirmedDates        *DateRange            `json:"confirmedDates,omitempty"`
	ConfirmedAvailability bool                  `json:"confirmedAvailability,omitempty"`
	PendingGuests         int                   `json:"pendingGuests,omitempty"`
	Params                QueryParameters       `json:"params"`
	Rooms                 []RoomCandidate       `json:"rooms,omitempty"`
	Availability          *AvailabilityResult   `json:"availability,omitempty"`
	Monthly               []MonthlyAvailability `json:"monthly,omitempty"`
	Combinations          []RoomCombination     `json:"combinations,omitempty"`
	Memory                *SessionMemory        `json:"memory,omitempty"`
}

// PastDateInfo reports a requested date that lies before today.
type PastDateInfo struct {
	Date  string `json:"date"`
	Today string `json:"today"`
}

// Decision is the structured outcome of one turn, handed to the response
// generator which owns all user-facing prose.
type Decision struct {
	Category string               `json:"category"`
	Case     *ReservationCase     `json:"case,omitempty"`
	Context  *ConversationContext `json:"context,omitempty"`
	PastDate *PastDateInfo        `json:"pastDate,omitempty"`
	Message  string               `json:"message"`
}

// HistoryEntry is one persisted chat turn.
type HistoryEntry struct {
	ID             string    `bson:"_id,omitempty" json:"id,omitempty"`
	LodgingID      string    `bson:"lodging_id" json:"lodgingId"`
	UserID         string    `bson:"user_id" json:"userId"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	UserMessage    string    `bson:"user_message" json:"userMessage"`
	BotResponse    string    `bson:"bot_response" json:"botResponse"`
	Category       string    `bson:"category" json:"category"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// IdempotencyRecord is the last completed turn of a conversation, kept so an
// immediate duplicate submit replays the same response.
type IdempotencyRecord struct {
	NormalizedMessage string       `json:"normalizedMessage"`
	TimestampMs       int64        `json:"timestampMs"`
	Response          ChatResponse `json:"response"`
	Category          string       `json:"category"`
}
