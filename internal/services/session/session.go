// Package session issues and verifies the bearer tokens that identify a
// workspace.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

const DefaultTTL = 30 * 24 * time.Hour

type Claims struct {
	jwt.RegisteredClaims
}

type Issued struct {
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service interface {
	Issue(ctx context.Context) (Issued, error)
	Parse(tokenString string) (uuid.UUID, error)
	// SetContextFromToken validates tokenString and attaches the session to
	// ctx as request data.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TTL() time.Duration
}

type service struct {
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(log *logger.Logger, secret string, ttl time.Duration) (Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("missing SESSION_SECRET")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &service{
		log:    log.With("service", "SessionService"),
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *service) TTL() time.Duration { return s.ttl }

func (s *service) Issue(ctx context.Context) (Issued, error) {
	id := uuid.New()
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign session token: %w", err)
	}
	s.log.Debug("session issued", "session_id", id)
	return Issued{Token: signed, SessionID: id, ExpiresAt: exp.UTC()}, nil
}

func (s *service) Parse(tokenString string) (uuid.UUID, error) {
	if strings.TrimSpace(tokenString) == "" {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session token: %v: %w", err, apperr.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid or expired session token: %w", apperr.ErrUnauthorized)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id in token: %w", apperr.ErrUnauthorized)
	}
	return id, nil
}

func (s *service) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	id, err := s.Parse(tokenString)
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tokenString, SessionID: id}), nil
}
