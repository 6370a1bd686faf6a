package models

// RoomCandidate is a bookable room as reported by the lodging backend.
type RoomCandidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// AvailabilityResult is the outcome of a date-range availability check.
type AvailabilityResult struct {
	Available bool            `json:"available"`
	CheckIn   string          `json:"checkIn,omitempty"`
	CheckOut  string          `json:"checkOut,omitempty"`
	Rooms     []RoomCandidate `json:"rooms,omitempty"`
}

// RoomCombination is a set of rooms that together cover a guest count.
type RoomCombination struct {
	RoomIDs       []string `json:"roomIds"`
	RoomNames     []string `json:"roomNames"`
	TotalCapacity int      `json:"totalCapacity"`
	Description   string   `json:"description"`
}

// CheckoutRef points the visitor at the frontend checkout flow with the
// booking fully specified.
type CheckoutRef struct {
	LodgingID string   `json:"lodgingId"`
	RoomIDs   []string `json:"roomIds"`
	CheckIn   string   `json:"checkIn"`
	CheckOut  string   `json:"checkOut"`
	Guests    int      `json:"guests"`
	URL       string   `json:"url"`
}

// CaseKind labels the terminal outcome of one reservation-flow turn.
type CaseKind string

const (
	CaseReady            CaseKind = "ready"
	CaseMissingRoom      CaseKind = "missing_room"
	CaseMissingDates     CaseKind = "missing_dates"
	CaseMissingGuests    CaseKind = "missing_guests"
	CaseCapacityExceeded CaseKind = "capacity_exceeded"
	CaseGeneralError     CaseKind = "general_error"
)

// ReservationCase is the tagged outcome of the reservation state machine.
// Only the fields relevant to Kind are populated.
type ReservationCase struct {
	Kind CaseKind `json:"kind"`

	// Ready.
	Checkout *CheckoutRef `json:"checkout,omitempty"`

	// CapacityExceeded.
	RoomName        string `json:"roomName,omitempty"`
	MaxCapacity     int    `json:"maxCapacity,omitempty"`
	RequestedGuests int    `json:"requestedGuests,omitempty"`
	// ExplicitRoom distinguishes a room named in the current message from
	// one inferred out of context or memory.
	ExplicitRoom bool `json:"explicitRoom,omitempty"`
}

// SessionMemory is the partial reservation state carried between turns.
type SessionMemory struct {
	LastRoom   string     `json:"lastRoom,omitempty"`
	LastDates  *DateRange `json:"lastDates,omitempty"`
	LastGuests int        `json:"lastGuests,omitempty"`
}

// Merge folds the non-empty fields of other into m.
func (m *SessionMemory) Merge(other SessionMemory) {
	if other.LastRoom != "" {
		m.LastRoom = other.LastRoom
	}
	if other.LastDates != nil {
		m.LastDates = other.LastDates
	}
	if other.LastGuests > 0 {
		m.LastGuests = other.LastGuests
	}
}

// IsEmpty reports whether no partial state is held.
func (m *SessionMemory) IsEmpty() bool {
	return m.LastRoom == "" && m.LastDates == nil && m.LastGuests == 0
}
