package auth

import (
	"testing"
	"time"

	"grimm.is/ifctl/internal/clock"
)

func newTestStore(t *testing.T) (*TokenStore, *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewTokenStore(15*time.Minute, 15*time.Second, clk), clk
}

func TestIssueAndVerify(t *testing.T) {
	store, clk := newTestStore(t)

	sess, err := store.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("empty token")
	}
	if !sess.ExpiresAt.Equal(sess.CreatedAt.Add(15 * time.Minute)) {
		t.Errorf("expiry window wrong: %v -> %v", sess.CreatedAt, sess.ExpiresAt)
	}

	if v := store.Verify(sess.Token); v != VerdictValid {
		t.Errorf("fresh token verdict = %v, want valid", v)
	}

	clk.Advance(16 * time.Minute)
	if v := store.Verify(sess.Token); v != VerdictExpired {
		t.Errorf("expired token verdict = %v, want expired", v)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	if v := store.Verify("never-issued"); v != VerdictUnknown {
		t.Errorf("verdict = %v, want unknown", v)
	}
}

func TestIssueCooldown(t *testing.T) {
	store, clk := newTestStore(t)

	if _, err := store.Issue(); err != nil {
		t.Fatalf("first Issue: %v", err)
	}

	if _, err := store.Issue(); err != ErrCooldown {
		t.Fatalf("second Issue err = %v, want ErrCooldown", err)
	}

	clk.Advance(16 * time.Second)
	if _, err := store.Issue(); err != nil {
		t.Fatalf("Issue after cooldown: %v", err)
	}
}

func TestRevoke(t *testing.T) {
	store, _ := newTestStore(t)

	sess, err := store.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if !store.Revoke(sess.Token) {
		t.Error("Revoke of live token should report true")
	}
	if v := store.Verify(sess.Token); v != VerdictUnknown {
		t.Errorf("revoked token verdict = %v, want unknown", v)
	}
	if store.Revoke(sess.Token) {
		t.Error("second Revoke should report false")
	}
}

func TestSweep(t *testing.T) {
	store, clk := newTestStore(t)

	sess, err := store.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clk.Advance(20 * time.Second)
	if _, err := store.Issue(); err != nil {
		t.Fatalf("second Issue: %v", err)
	}

	clk.Advance(16 * time.Minute)

	if n := store.Sweep(); n != 2 {
		t.Errorf("Sweep removed %d, want 2", n)
	}
	if store.Active() != 0 {
		t.Errorf("Active = %d after sweep", store.Active())
	}
	if v := store.Verify(sess.Token); v != VerdictUnknown {
		t.Errorf("swept token verdict = %v, want unknown", v)
	}
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)

	sess, err := store.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	store.Clear()
	if v := store.Verify(sess.Token); v != VerdictUnknown {
		t.Errorf("cleared token verdict = %v, want unknown", v)
	}
}
