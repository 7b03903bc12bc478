package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/dto/response"
	"github.com/renovia/pos-ledger-api/pkg/utils"
)

// SellerIDContextKey is the gin context key the authenticated seller is
// stored under.
const SellerIDContextKey = "seller_id"

// AuthMiddleware validates the bearer token and binds the seller to both the
// gin context and the request context, so repository scoping downstream sees
// it without further plumbing.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		if claims.SellerID == uuid.Nil {
			response.Unauthorized(c, "Token carries no seller")
			c.Abort()
			return
		}

		c.Set(SellerIDContextKey, claims.SellerID)
		c.Request = c.Request.WithContext(
			infraRepo.WithSeller(c.Request.Context(), claims.SellerID))

		c.Next()
	}
}

// GetSellerID extracts the authenticated seller from the gin context,
// uuid.Nil when unauthenticated.
func GetSellerID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(SellerIDContextKey)
	if !exists {
		return uuid.Nil
	}
	sellerID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return sellerID
}
