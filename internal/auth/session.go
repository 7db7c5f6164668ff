package auth

import (
	"errors"
	"strings"

	"medremind/internal/database"
	"medremind/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrNoToken is returned when the request carries no usable bearer token
var ErrNoToken = errors.New("no bearer token in request")

// BearerToken extracts the opaque session token from the Authorization header
func BearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrNoToken
	}
	return parts[1], nil
}

// GetSession resolves the request's bearer token to a session row. Sessions
// are issued by the portal's auth service; this side only ever reads them.
func GetSession(c *gin.Context) (*models.Session, error) {
	token, err := BearerToken(c)
	if err != nil {
		return nil, err
	}

	var session models.Session
	db := database.GetDB()
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
