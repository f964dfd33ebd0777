package users

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
)

type fakeStore struct {
	profiles map[string]*Profile
	admins   map[string]bool
}

func newFakeStore(ids ...string) *fakeStore {
	f := &fakeStore{profiles: map[string]*Profile{}, admins: map[string]bool{}}
	for _, id := range ids {
		f.profiles[id] = &Profile{UserID: id}
	}
	return f
}

func (f *fakeStore) EnsureProfile(_ context.Context, userID string, email *string) (*Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		p = &Profile{UserID: userID}
		f.profiles[userID] = p
	}
	if email != nil {
		p.Email = email
	}
	return p, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID string) (*Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeStore) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeStore) AddTelegramID(_ context.Context, userID string, telegramID int64) (pq.Int64Array, error) {
	p := f.profiles[userID]
	p.TelegramIDs = append(p.TelegramIDs, telegramID)
	return p.TelegramIDs, nil
}

func (f *fakeStore) GetProfileByTelegramID(_ context.Context, telegramID int64) (*Profile, error) {
	for _, p := range f.profiles {
		for _, id := range p.TelegramIDs {
			if id == telegramID {
				return p, nil
			}
		}
	}
	return nil, nil
}

func TestLinkTelegramAccount(t *testing.T) {
	store := newFakeStore("alice", "bob")
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.LinkTelegramAccount(ctx, "alice", 42); err != nil {
		t.Fatalf("first link: %v", err)
	}
	if err := svc.LinkTelegramAccount(ctx, "alice", 42); !errors.Is(err, ErrTelegramIDAlreadyLinkedToThisUser) {
		t.Errorf("relink err = %v", err)
	}
	if err := svc.LinkTelegramAccount(ctx, "bob", 42); !errors.Is(err, ErrTelegramIDAlreadyLinkedToOtherUser) {
		t.Errorf("steal err = %v", err)
	}
	if err := svc.LinkTelegramAccount(ctx, "carol", 7); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v", err)
	}

	p, err := svc.FindByTelegramID(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if p.UserID != "alice" {
		t.Errorf("linked to %s, want alice", p.UserID)
	}
}

func TestFindByTelegramIDNotFound(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.FindByTelegramID(context.Background(), 1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestIsAdmin(t *testing.T) {
	store := newFakeStore("root")
	store.admins["root"] = true
	svc := NewService(store)

	for id, want := range map[string]bool{"root": true, "guest": false} {
		got, err := svc.IsAdmin(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("IsAdmin(%s) = %t, want %t", id, got, want)
		}
	}
}
