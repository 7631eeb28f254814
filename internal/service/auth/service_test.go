package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/store"
	"github.com/bayraktare/pmt/pkg/config"
	"github.com/bayraktare/pmt/pkg/util"
)

func newAuth(t *testing.T) *Service {
	t.Helper()
	hash, err := util.HashPassword("alpha123")
	if err != nil {
		t.Fatal(err)
	}
	st := store.New()
	st.Seed(store.Data{Users: []model.User{{
		Username:     "alpha",
		PasswordHash: hash,
		Role:         model.RolePartner,
		Organization: "Alpha",
		Name:         "Alpha Representative",
	}}})
	return NewService(st, config.JWTConfig{Secret: "test-secret", TTL: time.Hour}, util.NewMemoryRevoker())
}

func TestAuthenticate(t *testing.T) {
	svc := newAuth(t)

	u, err := svc.Authenticate("alpha", "alpha123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Organization != "Alpha" {
		t.Errorf("organization = %q", u.Organization)
	}

	for _, c := range []struct{ user, pass string }{
		{"alpha", "wrong"},
		{"nobody", "alpha123"},
		{"", ""},
	} {
		if _, err := svc.Authenticate(c.user, c.pass); !errors.Is(err, model.ErrAuthFailure) {
			t.Errorf("Authenticate(%q, %q) err = %v", c.user, c.pass, err)
		}
	}
}

func TestLoginVerifyLogout(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "alpha", "alpha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.User.Username != "alpha" || sess.User.RoleLabel != "Partner" {
		t.Errorf("profile = %+v", sess.User)
	}

	u, claims, err := svc.Verify(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.Username != "alpha" || claims.Organization != "Alpha" {
		t.Errorf("verified %+v / %+v", u, claims)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatal(err)
	}
	_, _, err = svc.Verify(ctx, sess.Token)
	if !errors.Is(err, model.ErrAuthFailure) || !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("after logout err = %v", err)
	}
}

func TestVerify_RejectsForeignToken(t *testing.T) {
	svc := newAuth(t)
	token, _, err := util.GenerateJWT("alpha", "partner", "Alpha", "other-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Verify(context.Background(), token); !errors.Is(err, model.ErrAuthFailure) {
		t.Errorf("err = %v", err)
	}
}

func TestVerify_UnknownUser(t *testing.T) {
	svc := newAuth(t)
	token, _, err := util.GenerateJWT("ghost", "partner", "Alpha", "test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Verify(context.Background(), token); !errors.Is(err, model.ErrAuthFailure) {
		t.Errorf("err = %v", err)
	}
}

func TestProfileOf_DropsHash(t *testing.T) {
	p := ProfileOf(model.User{Username: "admin", PasswordHash: "secret", Role: model.RoleAdmin})
	if p.RoleLabel != "Admin" {
		t.Errorf("role label = %q", p.RoleLabel)
	}
}
