package session

import (
	"campusalert/pkg/user"
	"context"
	"fmt"
	"net/http"
)

// UserHeader lets a client act as another known user, e.g. to try likes
// from several accounts.
const UserHeader = "X-User-ID"

type SessionManager interface {
	Check(ctx context.Context, r *http.Request) (*Session, error)
}

type UserLookup interface {
	User(id string) (*user.User, bool)
}

// StaticManager resolves every request to a configured acting user. There is
// no login; the user must exist in the catalog.
type StaticManager struct {
	users  UserLookup
	userID string
}

func NewStaticManager(users UserLookup, actingUserID string) (*StaticManager, error) {
	if _, ok := users.User(actingUserID); !ok {
		return nil, fmt.Errorf("acting user %q is not in the catalog", actingUserID)
	}

	return &StaticManager{users: users, userID: actingUserID}, nil
}

func (sm *StaticManager) Check(ctx context.Context, r *http.Request) (*Session, error) {
	id := sm.userID
	if h := r.Header.Get(UserHeader); h != "" {
		id = h
	}

	u, ok := sm.users.User(id)
	if !ok {
		return nil, fmt.Errorf("unknown user %q: %w", id, ErrNoSession)
	}

	return &Session{User: u}, nil
}
