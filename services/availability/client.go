// Package availability talks to the lodging backend for rooms, capacities
// and date-range availability. Every call is fallible; callers treat errors
// as "no data" and keep the turn going.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"staybot/models"
	"staybot/utils"

	"go.uber.org/zap"
)

// Provider is the external availability surface the chat pipeline consumes.
type Provider interface {
	GetRooms(ctx context.Context, lodgingID string) ([]models.RoomCandidate, error)
	GetRoomCapacity(ctx context.Context, roomID string) (int, error)
	CheckAvailability(ctx context.Context, lodgingID, checkIn, checkOut string) (*models.AvailabilityResult, error)
	GetMonthlyAvailability(ctx context.Context, lodgingID, month string) (*models.MonthlyAvailability, error)
}

// HTTPProvider implements Provider against the lodging backend's REST API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  utils.GetLogger().Named("availability"),
	}
}

// roomPayload is the backend's wire shape for a room.
type roomPayload struct {
	ID       string `json:"id"`
	Name     string `json:"nombre"`
	Capacity int    `json:"capacidad"`
}

func (r roomPayload) toCandidate() models.RoomCandidate {
	return models.RoomCandidate{ID: r.ID, Name: r.Name, Capacity: r.Capacity}
}

func (p *HTTPProvider) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := p.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("availability request %s: %w", endpoint, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("availability call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("availability call %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("availability decode %s: %w", endpoint, err)
	}
	return nil
}

func (p *HTTPProvider) GetRooms(ctx context.Context, lodgingID string) ([]models.RoomCandidate, error) {
	var payload struct {
		Data []roomPayload `json:"data"`
	}
	if err := p.getJSON(ctx, fmt.Sprintf("/hospedajes/%s/habitaciones", lodgingID), nil, &payload); err != nil {
		return nil, err
	}
	rooms := make([]models.RoomCandidate, 0, len(payload.Data))
	for _, r := range payload.Data {
		rooms = append(rooms, r.toCandidate())
	}
	return rooms, nil
}

func (p *HTTPProvider) GetRoomCapacity(ctx context.Context, roomID string) (int, error) {
	var payload roomPayload
	if err := p.getJSON(ctx, fmt.Sprintf("/habitaciones/%s", roomID), nil, &payload); err != nil {
		return 0, err
	}
	return payload.Capacity, nil
}

func (p *HTTPProvider) CheckAvailability(ctx context.Context, lodgingID, checkIn, checkOut string) (*models.AvailabilityResult, error) {
	query := url.Values{}
	query.Set("fechaInicio", checkIn)
	query.Set("fechaFin", checkOut)
	var payload struct {
		Data []roomPayload `json:"data"`
	}
	endpoint := fmt.Sprintf("/habitaciones/hospedajes/%s/disponibilidad", lodgingID)
	if err := p.getJSON(ctx, endpoint, query, &payload); err != nil {
		return nil, err
	}
	rooms := make([]models.RoomCandidate, 0, len(payload.Data))
	for _, r := range payload.Data {
		rooms = append(rooms, r.toCandidate())
	}
	return &models.AvailabilityResult{
		Available: len(rooms) > 0,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Rooms:     rooms,
	}, nil
}

// GetMonthlyAvailability resolves month-level availability for a YYYY-MM token.
func (p *HTTPProvider) GetMonthlyAvailability(ctx context.Context, lodgingID, month string) (*models.MonthlyAvailability, error) {
	year, monthNum, err := splitMonth(month)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("mes", strconv.Itoa(monthNum))
	query.Set("año", strconv.Itoa(year))
	var payload struct {
		Data []roomPayload `json:"data"`
	}
	endpoint := fmt.Sprintf("/habitaciones/hospedajes/%s/disponibilidad-mes", lodgingID)
	if err := p.getJSON(ctx, endpoint, query, &payload); err != nil {
		return nil, err
	}
	return &models.MonthlyAvailability{
		Month:           month,
		HasAvailability: len(payload.Data) > 0,
		AvailableRooms:  len(payload.Data),
	}, nil
}

func splitMonth(month string) (int, int, error) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("availability: bad month token %q", month)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("availability: bad month token %q", month)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("availability: bad month token %q", month)
	}
	return year, m, nil
}
