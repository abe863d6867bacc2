package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
)

// Auth verifies the bearer token issued by the identity subsystem and injects
// the requester identity into the context. A missing header means anonymous;
// protected endpoints reject anonymous requesters via RequireAuth.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			r = r.WithContext(models.WithRequester(ctx, models.AnonymousRequester()))
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		requester, err := m.verifyToken(token)
		if err != nil {
			m.log.Warn(ctx, "failed to authenticate requester", "reason", err.Error())
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = models.WithRequester(ctx, requester)
		ctx = wrap.WithUserID(ctx, requester.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth allows only identified requesters through.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester := models.RequesterFromContext(r.Context())
		if requester.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// verifyToken checks the HMAC signature and expiry, then pulls the requester
// identity out of the claims.
func (m *Middleware) verifyToken(token string) (*models.Requester, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, types.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, types.ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, types.ErrInvalidToken
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, types.ErrInvalidToken
	}

	name, _ := claims["name"].(string)

	return &models.Requester{ID: id, Name: name}, nil
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
