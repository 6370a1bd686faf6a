package chat

import (
	"net/url"
	"testing"
)

func TestBuildCheckoutRef(t *testing.T) {
	ref := BuildCheckoutRef("http://localhost:3000/", "h1", []string{"r1"}, "2026-07-11", "2026-07-14", 2)

	u, err := url.Parse(ref.URL)
	if err != nil {
		t.Fatalf("checkout URL does not parse: %v", err)
	}
	if u.Path != "/checkout" {
		t.Errorf("path = %q, want /checkout", u.Path)
	}
	q := u.Query()
	for param, want := range map[string]string{
		"hospedajeId":   "h1",
		"habitacionIds": "r1",
		"fechaInicio":   "2026-07-11",
		"fechaFin":      "2026-07-14",
		"huespedes":     "2",
	} {
		if got := q.Get(param); got != want {
			t.Errorf("%s = %q, want %q", param, got, want)
		}
	}
}

func TestBuildCheckoutRefMultiRoom(t *testing.T) {
	ref := BuildCheckoutRef("http://localhost:3000", "h1", []string{"r1", "r2", "r3"}, "2026-07-11", "2026-07-14", 8)

	u, err := url.Parse(ref.URL)
	if err != nil {
		t.Fatalf("checkout URL does not parse: %v", err)
	}
	// One combined reservation carries the full id list.
	if got := u.Query().Get("habitacionIds"); got != "r1,r2,r3" {
		t.Errorf("habitacionIds = %q, want r1,r2,r3", got)
	}
	if len(ref.RoomIDs) != 3 || ref.Guests != 8 {
		t.Errorf("ref = %+v, want 3 rooms for 8 guests", ref)
	}
}
