package middleware

import (
	"net/http"
	"strings"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey    = "claims"
	PrincipalKey = "principal"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	TenantID string   `json:"tenant_id"`
	Features []string `json:"features"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and builds the
// request principal from the verified claims.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}
		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		features := make(map[auth.Feature]struct{}, len(claims.Features))
		for _, f := range claims.Features {
			features[auth.Feature(f)] = struct{}{}
		}

		c.Set(ClaimsKey, claims)
		c.Set(PrincipalKey, auth.Principal{
			UserID:         userID,
			Email:          claims.Email,
			Role:           auth.Role(claims.Role),
			TenantID:       tenantID,
			TenantFeatures: features,
		})
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, ok := c.MustGet(PrincipalKey).(auth.Principal)
		if !ok || !allowed[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetPrincipal retrieves the typed principal from the Gin context.
func GetPrincipal(c *gin.Context) auth.Principal {
	p, _ := c.MustGet(PrincipalKey).(auth.Principal)
	return p
}
