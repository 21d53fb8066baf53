// the ordered item catalog and the composite-key index used to
// match externally supplied rows back onto catalog positions.
// position (0-based index in declared order) is the durable
// identity for scores and memos - nothing else survives
// normalization.
package catalog

import (
	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/normalize"
)

// composite key separator between category and item name
const keySep = "__"

// ErrEmptyCatalog signals a structural failure: indexing and
// reconciliation refuse to proceed without items.
var ErrEmptyCatalog = errors.New("catalog is empty")

// one assessable item. category and name together identify the
// item for matching; description is display-only.
type Item struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// derives the composite matching key for a category/name pair.
// both parts are canonicalized so whitespace and full-width
// space drift in either side still matches.
func Key(category, name string) string {
	return normalize.Text(category) + keySep + normalize.Text(name)
}

// Index maps composite keys to catalog positions.
type Index map[string]int

// two catalog items whose composite keys normalize to the same
// string. an authoring defect in the catalog itself: rows
// carrying this key cannot be disambiguated.
type Collision struct {
	Key   string
	First int
	Later int
}

// builds the composite-key index in one pass over the catalog.
// on key collision the first-seen position keeps the index entry
// and the collision is reported - never silently swallowed.
func BuildIndex(items []Item) (Index, []Collision, error) {
	if len(items) == 0 {
		return nil, nil, ErrEmptyCatalog
	}

	idx := make(Index, len(items))
	var collisions []Collision
	for pos, item := range items {
		key := Key(item.Category, item.Name)
		if first, ok := idx[key]; ok {
			collisions = append(collisions, Collision{Key: key, First: first, Later: pos})
			continue
		}
		idx[key] = pos
	}
	return idx, collisions, nil
}

// deep-copies the catalog, used to snapshot the items into a
// record at save time so the record stays interpretable if the
// live catalog later changes.
func Snapshot(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
