package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"casabook/server/internal/models"
)

// SearchFilters narrows a public property search. Zero values are skipped.
type SearchFilters struct {
	City          string
	MinPrice      float64
	MaxPrice      float64
	AvailableFrom string
	AvailableTo   string

	// Amenity flags by their CMS names, e.g. "WiFi", "Piscina".
	Services []string
}

type propertyResponse struct {
	Data *models.PropertyEntry `json:"data"`
}

type propertyListResponse struct {
	Data []models.PropertyEntry `json:"data"`
}

type propertyRequest struct {
	Data models.PropertyInput `json:"data"`
}

// SearchProperties queries the "propiedades" collection with the CMS
// filter syntax.
func (c *Client) SearchProperties(ctx context.Context, filters SearchFilters) ([]models.PropertyEntry, error) {
	query := url.Values{}
	query.Set("populate", "*")
	if filters.City != "" {
		query.Set("filters[Direccion][$containsi]", filters.City)
	}
	if filters.MinPrice > 0 {
		query.Set("filters[Precio][$gte]", strconv.FormatFloat(filters.MinPrice, 'f', -1, 64))
	}
	if filters.MaxPrice > 0 {
		query.Set("filters[Precio][$lte]", strconv.FormatFloat(filters.MaxPrice, 'f', -1, 64))
	}
	if filters.AvailableFrom != "" {
		query.Set("filters[DisponibleDesde][$gte]", filters.AvailableFrom)
	}
	if filters.AvailableTo != "" {
		query.Set("filters[DisponibleHasta][$lte]", filters.AvailableTo)
	}
	for _, service := range filters.Services {
		query.Set(fmt.Sprintf("filters[Servicios][%s][$eq]", service), "true")
	}

	var resp propertyListResponse
	if err := c.do(ctx, http.MethodGet, "/api/propiedades", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetProperty fetches one property with its owner and images populated.
func (c *Client) GetProperty(ctx context.Context, id int) (*models.PropertyEntry, error) {
	query := url.Values{}
	query.Set("populate", "*")

	var resp propertyResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/propiedades/%d", id), query, nil, "", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "property not found"}
	}
	return resp.Data, nil
}

// ListPropertiesByOwner returns all properties belonging to one user.
func (c *Client) ListPropertiesByOwner(ctx context.Context, ownerID int) ([]models.PropertyEntry, error) {
	query := url.Values{}
	query.Set("populate", "*")
	query.Set("filters[users_permissions_user][id][$eq]", strconv.Itoa(ownerID))

	var resp propertyListResponse
	if err := c.do(ctx, http.MethodGet, "/api/propiedades", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateProperty writes a new property on behalf of the session user.
func (c *Client) CreateProperty(ctx context.Context, token string, input models.PropertyInput) (*models.PropertyEntry, error) {
	var resp propertyResponse
	if err := c.do(ctx, http.MethodPost, "/api/propiedades", nil, propertyRequest{Data: input}, token, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) UpdateProperty(ctx context.Context, token string, id int, input models.PropertyInput) (*models.PropertyEntry, error) {
	var resp propertyResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/propiedades/%d", id), nil, propertyRequest{Data: input}, token, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) DeleteProperty(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/propiedades/%d", id), nil, nil, token, nil)
}
