package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"casabook/server/internal/models"
)

// RegisterInput is the CMS local-registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the CMS local-login payload; Identifier is username or email.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResult is the CMS auth response: the session token plus the user.
type AuthResult struct {
	JWT  string       `json:"jwt"`
	User *models.User `json:"user"`
}

// Register creates a user through the CMS local auth provider.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/local/register", nil, input, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates a user against the CMS local auth provider.
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/local", nil, input, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser fetches a user with their role populated. Users come back flat,
// without the data/attributes envelope.
func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	query := url.Values{}
	query.Set("populate", "role")

	var user models.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), query, nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial profile update. The CMS users endpoint
// takes the fields at the top level, not wrapped in "data".
func (c *Client) UpdateUser(ctx context.Context, token string, id int, update models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), nil, update, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
