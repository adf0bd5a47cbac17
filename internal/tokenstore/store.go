package tokenstore

import (
	"context"
	"errors"
)

// ErrNoToken means the store holds no saved session token.
var ErrNoToken = errors.New("no stored token")

// Store persists the single session token between runs. Exclusively
// owned by the session manager; nothing else reads or writes the slot.
//
//go:generate mockgen -source=store.go -destination=store_mock.go -package=tokenstore
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}
