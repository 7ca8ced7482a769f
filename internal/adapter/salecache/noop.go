package salecache

import (
	"context"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// Noop satisfies the cache port when no Redis address is configured. Every
// lookup is a miss.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*model.Sale, bool) { return nil, false }
func (Noop) Set(context.Context, *model.Sale)               {}
func (Noop) Invalidate(context.Context, int64)              {}
