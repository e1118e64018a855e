// Package auth protects non-public endpoints with HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"news-extractor/internal/handler/http/respond"
)

type ctxKey string

const ctxSubject ctxKey = "subject"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
	errExpiredToken = errors.New("token expired")
)

// Authz returns middleware requiring a valid HS256 token signed with secret
// on every non-public endpoint. The token must carry "sub" and "exp" claims.
// An empty secret disables authentication.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(secret) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sub, err := validateJWT(r.Header.Get("Authorization"), secret)
			if err != nil {
				recordAuth(resultLabel(err), time.Since(start))
				w.Header().Set("WWW-Authenticate", `Bearer realm="news-extractor"`)
				respond.Error(w, http.StatusUnauthorized, "unauthorized: "+err.Error())
				return
			}
			recordAuth("success", time.Since(start))

			ctx := context.WithValue(r.Context(), ctxSubject, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the authenticated token subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(ctxSubject).(string)
	return sub, ok
}

func validateJWT(authz string, secret []byte) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", errMissingToken
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authz, prefix))

	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errExpiredToken
		}
		return "", errInvalidToken
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errInvalidToken
	}
	return sub, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "missing"
	case errors.Is(err, errExpiredToken):
		return "expired"
	default:
		return "invalid"
	}
}
