package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"casabook/server/internal/models"
)

const sessionKey = "session"

var errInvalidToken = errors.New("invalid session token")

// Session is the authenticated caller for one request: the CMS user plus
// the raw token, passed through on user-initiated CMS writes so the CMS
// applies its own permissions.
type Session struct {
	User  *models.User
	Token string
}

// TokenVerifier validates the HS256 session tokens the CMS issues and
// extracts the user id claim.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) UserID(token string) (int, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return 0, errInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, errInvalidToken
	}
	return int(id), nil
}

// RequireAuth verifies the Bearer token and loads the user (with role)
// from the CMS into the request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
		return
	}

	userID, err := h.verifier.UserID(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	user, err := h.cms.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load session user")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	c.Set(sessionKey, &Session{User: user, Token: token})
	c.Next()
}

// session returns the authenticated caller; only valid behind RequireAuth.
func session(c *gin.Context) *Session {
	value, _ := c.Get(sessionKey)
	s, _ := value.(*Session)
	return s
}
