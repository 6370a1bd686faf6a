package chat

import (
	"net/url"
	"strconv"
	"strings"

	"staybot/models"
)

// BuildCheckoutRef assembles the checkout reference handed to the external
// booking flow. Multi-room bookings carry a comma-joined id list; the result
// is one combined reservation, never one link per room.
func BuildCheckoutRef(frontendURL, lodgingID string, roomIDs []string, checkIn, checkOut string, guests int) *models.CheckoutRef {
	query := url.Values{}
	query.Set("hospedajeId", lodgingID)
	query.Set("habitacionIds", strings.Join(roomIDs, ","))
	query.Set("fechaInicio", checkIn)
	query.Set("fechaFin", checkOut)
	query.Set("huespedes", strconv.Itoa(guests))

	return &models.CheckoutRef{
		LodgingID: lodgingID,
		RoomIDs:   roomIDs,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    guests,
		URL:       strings.TrimRight(frontendURL, "/") + "/checkout?" + query.Encode(),
	}
}
