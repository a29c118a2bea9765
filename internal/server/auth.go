package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/akuan1997/concertweb/api/internal/interfaces/http/common"
)

var errInvalidToken = errors.New("access token is invalid")

// jwtVerifier checks HS256 admin tokens against a shared secret.
type jwtVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

type adminClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// authMiddleware validates the bearer token and stores the admin principal in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "expected a Bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, "access token is empty")
			return
		}

		claims, err := s.auth.parse(tokenString)
		if err != nil {
			s.logger.WarnContext(r.Context(), "admin token rejected", "error", err)
			commonhttp.WriteMessage(s.logger, w, http.StatusUnauthorized, errInvalidToken.Error())
			return
		}

		admin := commonhttp.AuthenticatedAdmin{ID: claims.Subject, Name: claims.Name}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithAdmin(r.Context(), admin)))
	})
}

// parse verifies signature, time claims, issuer and audience, and requires a subject.
func (v jwtVerifier) parse(tokenString string) (*adminClaims, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("admin auth is not configured")
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: issuer %q", errInvalidToken, claims.Issuer)
	}
	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return nil, fmt.Errorf("%w: audience mismatch", errInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: subject is empty", errInvalidToken)
	}
	return claims, nil
}
