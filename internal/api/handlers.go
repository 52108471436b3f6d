package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"casabook/server/internal/booking"
	"casabook/server/internal/cms"
	"casabook/server/internal/models"
	"casabook/server/internal/payments"
	"casabook/server/internal/payouts"
)

type Handler struct {
	cms      *cms.Client
	booking  *booking.Service
	payouts  *payouts.Processor
	payments payments.Provider
	geocoder Geocoder
	verifier *TokenVerifier
	logger   *logrus.Logger
	feeRate  float64
	currency string
}

func NewHandler(cmsClient *cms.Client, bookingService *booking.Service, payoutProcessor *payouts.Processor, provider payments.Provider, geocoder Geocoder, verifier *TokenVerifier, feeRate float64, currency string, logger *logrus.Logger) *Handler {
	return &Handler{
		cms:      cmsClient,
		booking:  bookingService,
		payouts:  payoutProcessor,
		payments: provider,
		geocoder: geocoder,
		verifier: verifier,
		logger:   logger,
		feeRate:  feeRate,
		currency: currency,
	}
}

// respondError maps workflow errors onto HTTP statuses: business-rule
// violations are 4xx with the rule's message, CMS errors keep their
// upstream status, everything else is a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrDatesUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case booking.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cms.ErrConnection):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Connection error"})
	default:
		var apiErr *cms.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --- properties ---

type searchQuery struct {
	City          string  `form:"city"`
	MinPrice      float64 `form:"minPrice"`
	MaxPrice      float64 `form:"maxPrice"`
	AvailableFrom string  `form:"availableFrom"`
	AvailableTo   string  `form:"availableTo"`
	Services      string  `form:"services"`
	Lat           float64 `form:"lat"`
	Lng           float64 `form:"lng"`
	RadiusKM      float64 `form:"radiusKm"`
}

func (h *Handler) SearchProperties(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	filters := cms.SearchFilters{
		City:          query.City,
		MinPrice:      query.MinPrice,
		MaxPrice:      query.MaxPrice,
		AvailableFrom: query.AvailableFrom,
		AvailableTo:   query.AvailableTo,
	}
	if query.Services != "" {
		filters.Services = strings.Split(query.Services, ",")
	}

	properties, err := h.cms.SearchProperties(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if query.RadiusKM > 0 {
		properties = h.filterByRadius(properties, query.Lat, query.Lng, query.RadiusKM)
	}

	c.JSON(http.StatusOK, gin.H{"data": properties})
}

func (h *Handler) GetProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}

	property, err := h.cms.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": property})
}

func (h *Handler) ListMyProperties(c *gin.Context) {
	s := session(c)
	properties, err := h.cms.ListPropertiesByOwner(c.Request.Context(), s.User.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties})
}

func (h *Handler) CreateProperty(c *gin.Context) {
	s := session(c)
	if !s.User.IsOwner() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only owners can create properties"})
		return
	}

	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}
	if input.Title == "" || input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and a positive price are required"})
		return
	}
	input.Owner = s.User.ID
	if input.PublishedAt == "" {
		input.PublishedAt = time.Now().UTC().Format(time.RFC3339)
	}

	property, err := h.cms.CreateProperty(c.Request.Context(), s.Token, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": property})
}

// requireOwnership loads a property and checks the session user owns it.
func (h *Handler) requireOwnership(c *gin.Context, id int) *models.PropertyEntry {
	s := session(c)
	property, err := h.cms.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return nil
	}
	if property.OwnerID() != s.User.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this property"})
		return nil
	}
	return property
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}
	if h.requireOwnership(c, id) == nil {
		return
	}

	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}
	input.Owner = session(c).User.ID

	property, err := h.cms.UpdateProperty(c.Request.Context(), session(c).Token, id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": property})
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}
	if h.requireOwnership(c, id) == nil {
		return
	}

	if err := h.cms.DeleteProperty(c.Request.Context(), session(c).Token, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// --- auth ---

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	Role            string `json:"role"`
	CountryCode     string `json:"countryCode"`
	Phone           string `json:"phone"`
	StripeAccountID string `json:"stripeAccountId"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and password are required"})
		return
	}

	roleID := models.RoleRenter
	if req.Role == "Propietario" {
		roleID = models.RoleOwner
	}
	if roleID == models.RoleOwner && req.StripeAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owners must provide a payout account"})
		return
	}

	result, err := h.cms.Register(c.Request.Context(), cms.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Role and payout account are set server-side; users cannot change
	// their role after registration.
	update := models.UserUpdate{
		Role:            roleID,
		CountryCode:     req.CountryCode,
		Phone:           req.Phone,
		StripeAccountID: req.StripeAccountID,
	}
	user, err := h.cms.UpdateUser(c.Request.Context(), "", result.User.ID, update)
	if err != nil {
		// The account now exists with the default role; an operator has
		// to reconcile or remove it.
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  result.User.ID,
			"username": req.Username,
		}).Error("User registered but role assignment failed")
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwt": result.JWT, "user": user})
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifier and password are required"})
		return
	}

	result, err := h.cms.Login(c.Request.Context(), cms.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// The auth response omits the role; fetch the full user for the client.
	user, err := h.cms.GetUser(c.Request.Context(), result.User.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwt": result.JWT, "user": user})
}

type profileUpdateRequest struct {
	CountryCode     string `json:"countryCode"`
	Phone           string `json:"phone"`
	StripeAccountID string `json:"stripeAccountId"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	s := session(c)

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
		return
	}

	user, err := h.cms.UpdateUser(c.Request.Context(), s.Token, s.User.ID, models.UserUpdate{
		CountryCode:     req.CountryCode,
		Phone:           req.Phone,
		StripeAccountID: req.StripeAccountID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// --- reservations ---

// reservationView decorates a stored reservation with its effective
// status (confirmed stays in the past read as completed).
type reservationView struct {
	models.ReservationEntry
	EffectiveStatus string `json:"effectiveStatus"`
}

func toViews(entries []models.ReservationEntry, now time.Time) []reservationView {
	views := make([]reservationView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, reservationView{
			ReservationEntry: entry,
			EffectiveStatus: string(booking.EffectiveStatus(
				booking.Status(entry.Attributes.Status), entry.Attributes.EndDate, now)),
		})
	}
	return views
}

// ListReservations returns the renter's own reservations, or the
// reservations received across an owner's properties.
func (h *Handler) ListReservations(c *gin.Context) {
	s := session(c)
	ctx := c.Request.Context()

	var (
		entries []models.ReservationEntry
		err     error
	)
	if s.User.IsOwner() {
		properties, perr := h.cms.ListPropertiesByOwner(ctx, s.User.ID)
		if perr != nil {
			h.respondError(c, perr)
			return
		}
		ids := make([]int, 0, len(properties))
		for _, p := range properties {
			ids = append(ids, p.ID)
		}
		entries, err = h.cms.ListReservationsByProperties(ctx, ids)
	} else {
		entries, err = h.cms.ListReservationsByRenter(ctx, s.User.ID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toViews(entries, time.Now())})
}

func (h *Handler) CreateReservation(c *gin.Context) {
	s := session(c)

	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property id, start date and end date are required"})
		return
	}

	result, err := h.booking.CreateReservation(c.Request.Context(), s.User, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type statusChangeRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	s := session(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	if err := h.booking.ChangeStatus(c.Request.Context(), s.User, id, booking.Status(req.Status)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation updated"})
}
