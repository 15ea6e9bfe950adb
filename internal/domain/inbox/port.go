package inbox

import (
	"context"

	"github.com/ghostguard/ghostguard/internal/domain/threats"
)

// Store holds a session's items. Implementations must serialize mutations so
// that MarkScanned is a single-writer operation per item.
type Store interface {
	Add(item *Item)
	Get(id ItemID) (*Item, bool)
	List() []*Item
	Unscanned() []*Item
	MarkScanned(id ItemID, threatIDs ...string)
}

// Loader fills a freshly connected session's store with its initial items.
type Loader interface {
	Load(ctx context.Context, source threats.Source, account string) ([]*Item, error)
}
