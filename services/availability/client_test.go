package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newBackendStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetRooms(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hospedajes/h1/habitaciones" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":"r1","nombre":"Suite Martina","capacidad":2},{"id":"r2","nombre":"Suite Real","capacidad":4}]}`))
	})

	p := NewHTTPProvider(srv.URL)
	rooms, err := p.GetRooms(context.Background(), "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2", len(rooms))
	}
	if rooms[0].ID != "r1" || rooms[0].Name != "Suite Martina" || rooms[0].Capacity != 2 {
		t.Errorf("room = %+v", rooms[0])
	}
}

func TestGetRoomCapacity(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/habitaciones/r1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"r1","nombre":"Suite Martina","capacidad":3}`))
	})

	p := NewHTTPProvider(srv.URL)
	capacity, err := p.GetRoomCapacity(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	if capacity != 3 {
		t.Errorf("capacity = %d, want 3", capacity)
	}
}

func TestCheckAvailability(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/habitaciones/hospedajes/h1/disponibilidad" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("fechaInicio") != "2026-07-11" || q.Get("fechaFin") != "2026-07-14" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"data":[{"id":"r1","nombre":"Suite Martina","capacidad":2}]}`))
	})

	p := NewHTTPProvider(srv.URL)
	result, err := p.CheckAvailability(context.Background(), "h1", "2026-07-11", "2026-07-14")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Available || len(result.Rooms) != 1 {
		t.Errorf("result = %+v, want one available room", result)
	}
}

func TestCheckAvailabilityEmpty(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	p := NewHTTPProvider(srv.URL)
	result, err := p.CheckAvailability(context.Background(), "h1", "2026-07-11", "2026-07-14")
	if err != nil {
		t.Fatal(err)
	}
	if result.Available {
		t.Errorf("result = %+v, want unavailable", result)
	}
}

func TestGetMonthlyAvailability(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/habitaciones/hospedajes/h1/disponibilidad-mes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("mes") != "7" || q.Get("año") != "2026" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"data":[{"id":"r1"},{"id":"r2"}]}`))
	})

	p := NewHTTPProvider(srv.URL)
	monthly, err := p.GetMonthlyAvailability(context.Background(), "h1", "2026-07")
	if err != nil {
		t.Fatal(err)
	}
	if !monthly.HasAvailability || monthly.AvailableRooms != 2 || monthly.Month != "2026-07" {
		t.Errorf("monthly = %+v", monthly)
	}
}

func TestGetMonthlyAvailabilityBadToken(t *testing.T) {
	p := NewHTTPProvider("http://localhost:0")
	if _, err := p.GetMonthlyAvailability(context.Background(), "h1", "julio"); err == nil {
		t.Error("expected an error for a malformed month token")
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := newBackendStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	p := NewHTTPProvider(srv.URL)
	if _, err := p.GetRooms(context.Background(), "h1"); err == nil {
		t.Error("expected an error on a 500 response")
	}
}
