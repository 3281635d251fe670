package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/leeminji/quizrally/internal/dto"
)

const identityKey = "identity"

// Identity is what the session layer guarantees downstream: an authenticated
// user id and the staff capability flag. Nothing past this middleware
// re-validates credentials.
type Identity struct {
	UserID  uint
	IsStaff bool
}

type sessionClaims struct {
	UserID  uint `json:"user_id"`
	IsStaff bool `json:"is_staff"`
	jwt.RegisteredClaims
}

// Authenticate parses the bearer token and plants the Identity into the
// request context. Requests without a valid token are rejected outright.
func Authenticate(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid session token"})
			return
		}

		ctx.Set(identityKey, Identity{UserID: claims.UserID, IsStaff: claims.IsStaff})
		ctx.Next()
	}
}

// RequireStaff gates catalog and quiz authoring routes.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !CurrentIdentity(ctx).IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Staff capability required"})
			return
		}
		ctx.Next()
	}
}

func CurrentIdentity(ctx *gin.Context) Identity {
	if v, ok := ctx.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
