package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"casabook/server/internal/models"
)

type reservationResponse struct {
	Data *models.ReservationEntry `json:"data"`
}

type reservationListResponse struct {
	Data []models.ReservationEntry `json:"data"`
}

type reservationRequest struct {
	Data models.ReservationInput `json:"data"`
}

type reservationStatusRequest struct {
	Data struct {
		Status string `json:"estado"`
	} `json:"data"`
}

// BlockingReservations returns the reservations on a property whose
// status makes their date range unavailable to new requests.
func (c *Client) BlockingReservations(ctx context.Context, propertyID int, statuses []string) ([]models.ReservationEntry, error) {
	query := url.Values{}
	query.Set("filters[propiedad][id][$eq]", strconv.Itoa(propertyID))
	for i, status := range statuses {
		query.Set(fmt.Sprintf("filters[estado][$in][%d]", i), status)
	}

	var resp reservationListResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservas", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListReservationsByRenter returns a user's own reservations with the
// property populated.
func (c *Client) ListReservationsByRenter(ctx context.Context, renterID int) ([]models.ReservationEntry, error) {
	query := url.Values{}
	query.Set("filters[usuario][id][$eq]", strconv.Itoa(renterID))
	query.Set("populate[propiedad]", "true")
	query.Set("populate[usuario]", "true")

	var resp reservationListResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservas", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListReservationsByProperties returns every reservation on the given
// properties; the owner dashboard uses this for received bookings.
func (c *Client) ListReservationsByProperties(ctx context.Context, propertyIDs []int) ([]models.ReservationEntry, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for i, id := range propertyIDs {
		query.Set(fmt.Sprintf("filters[propiedad][id][$in][%d]", i), strconv.Itoa(id))
	}
	query.Set("populate[propiedad]", "true")
	query.Set("populate[usuario]", "true")

	var resp reservationListResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservas", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPendingReservations returns all pending reservations with the
// property and its owner populated, for the payout scan.
func (c *Client) ListPendingReservations(ctx context.Context) ([]models.ReservationEntry, error) {
	query := url.Values{}
	query.Set("filters[estado][$eq]", "pendiente")
	query.Set("populate", "propiedad.users_permissions_user")

	var resp reservationListResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservas", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetReservation fetches one reservation with property and owner populated.
func (c *Client) GetReservation(ctx context.Context, id int) (*models.ReservationEntry, error) {
	query := url.Values{}
	query.Set("populate[propiedad][populate][0]", "users_permissions_user")
	query.Set("populate[usuario]", "true")

	var resp reservationResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/reservas/%d", id), query, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "reservation not found"}
	}
	return resp.Data, nil
}

// CreateReservation persists a reservation record. The payment intent id
// and total must already be set by the booking workflow.
func (c *Client) CreateReservation(ctx context.Context, input models.ReservationInput) (*models.ReservationEntry, error) {
	var resp reservationResponse
	if err := c.do(ctx, http.MethodPost, "/api/reservas", nil, reservationRequest{Data: input}, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateReservationStatus sets the stored status of a reservation.
func (c *Client) UpdateReservationStatus(ctx context.Context, id int, status string) error {
	body := reservationStatusRequest{}
	body.Data.Status = status
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/reservas/%d", id), nil, body, "", nil)
}
