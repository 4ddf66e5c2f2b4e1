// Package cache keeps cart snapshots close to the HTTP layer. The database
// stays the source of truth; entries are dropped after every cart mutation.
//
// Every user has a snapshot generation that Delete advances. A reader takes
// the generation before loading the cart and passes it to Set, which stores
// the snapshot only if no mutation happened in between.
package cache

import (
	"context"

	"github.com/go-faster/errors"

	"decohogar/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Generation(ctx context.Context, userID string) (uint64, error)
	Set(ctx context.Context, userID string, gen uint64, cart *domain.Cart) error
	Delete(ctx context.Context, userIDs ...string) error
}

var ErrCacheMiss = errors.New("cache miss")

// ErrStale is returned by Set when the generation moved since gen was read.
var ErrStale = errors.New("cart snapshot is stale")

// Nop is used when no Redis address is configured. Every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.Cart, error)       { return nil, ErrCacheMiss }
func (Nop) Generation(context.Context, string) (uint64, error)      { return 0, nil }
func (Nop) Set(context.Context, string, uint64, *domain.Cart) error { return nil }
func (Nop) Delete(context.Context, ...string) error                 { return nil }
