package middleware

import (
	"net/http"

	"storefront-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdentityKey is the gin context key the resolved identity is stored under.
const IdentityKey = "identity"

const (
	userIDHeader      = "X-User-ID"
	sessionIDHeader   = "X-Session-ID"
	guestSessionTTL   = 24 * 60 * 60
	guestCookieName   = "guest_session_id"
	guestCookiePath   = "/"
	guestCookieDomain = ""
)

// Identity resolves the caller to exactly one owner of carts and checkouts.
// An upstream auth layer sets X-User-ID for authenticated requests; otherwise
// the guest session id comes from the X-Session-ID header or a cookie, minting
// a new one when the browser has none yet.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(userIDHeader); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
				return
			}
			c.Set(IdentityKey, models.UserIdentity(userID))
			c.Next()
			return
		}

		sessionID := c.GetHeader(sessionIDHeader)
		if sessionID == "" {
			sessionID, _ = c.Cookie(guestCookieName)
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(guestCookieName, sessionID, guestSessionTTL, guestCookiePath, guestCookieDomain, false, true)
		}

		c.Set(IdentityKey, models.GuestIdentity(sessionID))
		c.Next()
	}
}

// GetIdentity returns the identity resolved by the Identity middleware.
func GetIdentity(c *gin.Context) models.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Identity{}
}

// RequireUser aborts with 401 unless the request carries an authenticated
// user identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if _, ok := identity.UserID(); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}
