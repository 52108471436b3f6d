package models

import "time"

// ReservationAttributes is a reservation ("reserva") as stored by the CMS.
// Dates are calendar days in YYYY-MM-DD; CreatedAt is set by the CMS.
type ReservationAttributes struct {
	StartDate       string            `json:"fechaInicio"`
	EndDate         string            `json:"fechaFin"`
	Status          string            `json:"estado"`
	Total           float64           `json:"total,omitempty"`
	PaymentIntentID string            `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt,omitempty"`
	Property        *PropertyRelation `json:"propiedad,omitempty"`
	Renter          *UserRelation     `json:"usuario,omitempty"`
}

type ReservationEntry struct {
	ID         int                   `json:"id"`
	Attributes ReservationAttributes `json:"attributes"`
}

// PropertyID returns the id of the reserved property, or 0 when the
// relation was not populated.
func (r *ReservationEntry) PropertyID() int {
	if r.Attributes.Property == nil || r.Attributes.Property.Data == nil {
		return 0
	}
	return r.Attributes.Property.Data.ID
}

// RenterID returns the id of the requesting user, or 0 when the relation
// was not populated.
func (r *ReservationEntry) RenterID() int {
	if r.Attributes.Renter == nil || r.Attributes.Renter.Data == nil {
		return 0
	}
	return r.Attributes.Renter.Data.ID
}

// ReservationInput is the write payload for creating a reservation.
type ReservationInput struct {
	Property        int     `json:"propiedad"`
	StartDate       string  `json:"fechaInicio"`
	EndDate         string  `json:"fechaFin"`
	Renter          int     `json:"usuario"`
	Status          string  `json:"estado"`
	Total           float64 `json:"total"`
	PaymentIntentID string  `json:"paymentIntentId,omitempty"`
}
