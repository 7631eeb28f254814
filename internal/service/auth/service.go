package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/store"
	"github.com/bayraktare/pmt/pkg/config"
	"github.com/bayraktare/pmt/pkg/metrics"
	"github.com/bayraktare/pmt/pkg/util"
)

// ErrTokenRevoked is returned for a token whose session was logged out.
var ErrTokenRevoked = errors.New("token revoked")

type Service struct {
	store   *store.Store
	secret  string
	ttl     time.Duration
	revoker util.TokenRevoker
}

func NewService(st *store.Store, cfg config.JWTConfig, revoker util.TokenRevoker) *Service {
	if revoker == nil {
		revoker = util.NewMemoryRevoker()
	}
	return &Service{
		store:   st,
		secret:  cfg.Secret,
		ttl:     cfg.TTL,
		revoker: revoker,
	}
}

// Authenticate checks the credentials against the stored bcrypt hash.
func (s *Service) Authenticate(username, password string) (model.User, error) {
	var (
		u  model.User
		ok bool
	)
	s.store.View(func(d *store.Data) {
		u, ok = d.User(username)
	})
	if !ok || u.PasswordHash == "" || !util.CheckPassword(password, u.PasswordHash) {
		return model.User{}, model.ErrAuthFailure
	}
	return u, nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      model.Profile `json:"user"`
}

// Login authenticates and issues a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.Authenticate(username, password)
	if err != nil {
		metrics.IncrementLoginAttempt("failure")
		return nil, err
	}

	token, claims, err := util.GenerateJWT(u.Username, string(u.Role), u.Organization, s.secret, s.ttl)
	if err != nil {
		metrics.IncrementLoginAttempt("error")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.IncrementLoginAttempt("success")
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      ProfileOf(u),
	}, nil
}

// Verify parses a session token and resolves the current user record.
func (s *Service) Verify(ctx context.Context, token string) (model.User, *util.Claims, error) {
	claims, err := util.ParseJWT(token, s.secret)
	if err != nil {
		return model.User{}, nil, fmt.Errorf("%w: %v", model.ErrAuthFailure, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.User{}, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return model.User{}, nil, fmt.Errorf("%w: %w", model.ErrAuthFailure, ErrTokenRevoked)
	}

	var (
		u  model.User
		ok bool
	)
	s.store.View(func(d *store.Data) {
		u, ok = d.User(claims.Username)
	})
	if !ok {
		return model.User{}, nil, fmt.Errorf("%w: unknown user", model.ErrAuthFailure)
	}
	return u, claims, nil
}

// Logout revokes the session until the token would have expired.
func (s *Service) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// ProfileOf strips credentials from u.
func ProfileOf(u model.User) model.Profile {
	return model.Profile{
		Username:     u.Username,
		Role:         u.Role,
		RoleLabel:    cases.Title(language.English).String(string(u.Role)),
		Organization: u.Organization,
		Name:         u.Name,
		Email:        u.Email,
	}
}
