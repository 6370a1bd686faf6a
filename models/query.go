package models

// QueryParameters holds everything pulled out of a single user message:
// resolved dates, numeric entities and monthly markers.
type QueryParameters struct {
	HasDates   bool   `json:"hasDates"`
	CheckIn    string `json:"checkIn,omitempty"`    // YYYY-MM-DD
	CheckOut   string `json:"checkOut,omitempty"`   // YYYY-MM-DD
	SingleDate string `json:"singleDate,omitempty"` // YYYY-MM-DD

	Guests int `json:"guests,omitempty"`
	Nights int `json:"nights,omitempty"`
	Days   int `json:"days,omitempty"`
	Rooms  int `json:"rooms,omitempty"`

	IsMonthlyQuery bool     `json:"isMonthlyQuery,omitempty"`
	SingleMonth    string   `json:"singleMonth,omitempty"` // YYYY-MM
	MultipleMonths []string `json:"multipleMonths,omitempty"`

	// InterceptedGuestReply marks a bare numeric answer to a pending
	// guest-count question; such turns bypass normal extraction.
	InterceptedGuestReply bool `json:"interceptedGuestReply,omitempty"`

	// DatesInferred is set when the dates were carried over from client
	// context or session memory rather than the current message.
	DatesInferred bool `json:"datesInferred,omitempty"`
}

// DateRange is a check-in/check-out pair in YYYY-MM-DD form.
type DateRange struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// MonthlyAvailability summarizes room availability over one calendar month.
type MonthlyAvailability struct {
	Month           string `json:"month"` // YYYY-MM
	HasAvailability bool   `json:"hasAvailability"`
	AvailableRooms  int    `json:"availableRooms"`
}
