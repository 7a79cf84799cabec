package middleware

import (
	"context"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	adapter "github.com/gwatts/gin-adapter"
)

// JWT rejects requests without a valid HS256 bearer token issued by issuer
// for audience. The validated claims are stored in the request context.
func JWT(secret []byte, issuer, audience string) (gin.HandlerFunc, error) {
	keyFunc := func(context.Context) (interface{}, error) {
		return secret, nil
	}
	v, err := validator.New(keyFunc, validator.HS256, issuer, []string{audience},
		validator.WithAllowedClockSkew(30*time.Second))
	if err != nil {
		return nil, err
	}

	mw := jwtmiddleware.New(v.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not authorized, token failed"})
		}),
	)
	return adapter.Wrap(mw.CheckJWT), nil
}

// GetUserID returns the subject of the validated token.
func GetUserID(c *gin.Context) (string, bool) {
	claims, ok := c.Request.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		GetLogger(c).Warn("no token claims in context")
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}
