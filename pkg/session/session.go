package session

import (
	"campusalert/pkg/user"
	"context"
	"errors"
)

type key int

const (
	SessionKey key = 1
)

var ErrNoSession = errors.New("session not found")

// Session identifies the user a request acts on behalf of.
type Session struct {
	User *user.User `json:"user"`
}

func SessionFromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(SessionKey).(*Session)
	if !ok {
		return nil, ErrNoSession
	}

	return sess, nil
}
