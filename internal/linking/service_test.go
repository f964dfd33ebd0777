package linking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewService(ctx)
}

func TestLinkTokenIsSingleUse(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateLinkToken("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 2*linkTokenLengthBytes {
		t.Errorf("token length = %d", len(token))
	}

	userID, err := svc.ValidateAndUseLinkToken(token)
	if err != nil || userID != "u1" {
		t.Fatalf("first use = %q, %v", userID, err)
	}
	if _, err := svc.ValidateAndUseLinkToken(token); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Errorf("second use err = %v", err)
	}
}

func TestLinkTokenExpires(t *testing.T) {
	svc := newTestService(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	token, err := svc.GenerateLinkToken("u1")
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return start.Add(linkTokenTTL + time.Second) }
	if _, err := svc.ValidateAndUseLinkToken(token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestPurgeDropsUsedAndExpired(t *testing.T) {
	svc := newTestService(t)
	used, _ := svc.GenerateLinkToken("a")
	fresh, _ := svc.GenerateLinkToken("b")
	if _, err := svc.ValidateAndUseLinkToken(used); err != nil {
		t.Fatal(err)
	}

	svc.purge()

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if _, ok := svc.tokens[used]; ok {
		t.Error("used token survived purge")
	}
	if _, ok := svc.tokens[fresh]; !ok {
		t.Error("fresh token was purged")
	}
}

func TestUnknownToken(t *testing.T) {
	if _, err := newTestService(t).ValidateAndUseLinkToken("nope"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("err = %v", err)
	}
}
