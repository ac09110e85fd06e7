package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func signTestToken(t *testing.T, secret, subject, role string, now time.Time, ttl time.Duration) string {
	t.Helper()
	builder := jwt.NewBuilder().
		Subject(subject).
		Issuer("resto").
		Audience([]string{"resto-app"}).
		IssuedAt(now).
		Expiration(now.Add(ttl))
	if role != "" {
		builder = builder.Claim("role", role)
	}
	token, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(VerifierConfig{
		Secret:   "test-secret",
		Issuer:   "resto",
		Audience: "resto-app",
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerifyCustomerToken(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	id, err := v.Verify(signTestToken(t, "test-secret", "cust-1", "", now, time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != "cust-1" {
		t.Fatalf("user id = %q", id.UserID)
	}
	if id.Admin {
		t.Fatal("customer token flagged admin")
	}
}

func TestVerifyAdminRole(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	id, err := v.Verify(signTestToken(t, "test-secret", "staff-1", "admin", now, time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !id.Admin {
		t.Fatal("admin token not flagged admin")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	if _, err := v.Verify(signTestToken(t, "other-secret", "cust-1", "", now, time.Minute)); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	if _, err := v.Verify(signTestToken(t, "test-secret", "cust-1", "", now.Add(-2*time.Hour), time.Minute)); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	now := time.Now()
	v := newTestVerifier(t, now)

	if _, err := v.Verify(signTestToken(t, "test-secret", "", "", now, time.Minute)); err == nil {
		t.Fatal("expected missing subject error")
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	v := newTestVerifier(t, time.Now())
	if _, err := v.Verify("  "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
