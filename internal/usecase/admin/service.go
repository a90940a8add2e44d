package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/domain"
)

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

// Session is an issued admin token.
type Session struct {
	Token     string
	Phone     string
	ExpiresAt time.Time
}

// Service authenticates admins and verifies their session tokens.
type Service struct {
	sessions SessionStore
	phones   map[string]struct{}
	passcode string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an admin service. Login always fails when phones or passcode is empty.
func New(sessions SessionStore, phones []string, passcode string, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	set := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		if p = normalizePhone(p); p != "" {
			set[p] = struct{}{}
		}
	}
	return &Service{
		sessions: sessions,
		phones:   set,
		passcode: passcode,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled reports whether any admin can log in.
func (s *Service) Enabled() bool {
	return len(s.phones) > 0 && s.passcode != ""
}

// Login checks phone and passcode and issues a session token.
func (s *Service) Login(ctx context.Context, phone, passcode string) (Session, error) {
	phone = normalizePhone(phone)
	_, known := s.phones[phone]
	codeOK := subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) == 1
	if !s.Enabled() || !known || !codeOK {
		s.logger.Warn("Admin login rejected", zap.Bool("known_phone", known))
		return Session{}, fmt.Errorf("login: %w", domain.ErrUnauthorized)
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, phone, s.ttl); err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	s.logger.Info("Admin logged in", zap.String("phone", maskPhone(phone)))
	return Session{Token: token, Phone: phone, ExpiresAt: s.now().Add(s.ttl)}, nil
}

// Verify resolves a token to the admin phone.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	phone, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return "", fmt.Errorf("verify session: %w", err)
	}
	return phone, nil
}

// Logout revokes a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// normalizePhone strips spaces, dashes and parentheses.
func normalizePhone(p string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(p))
}

func maskPhone(p string) string {
	if len(p) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}
