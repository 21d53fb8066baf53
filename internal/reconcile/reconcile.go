// the reconciliation engine: maps externally produced rows back
// onto catalog positions. pure - no state between calls, input
// catalog and rows are never mutated. data-quality problems
// (unmatched rows, bad scores, duplicate keys) are accumulated
// as diagnostics, never raised; only structural preconditions
// (no catalog, no rows) fail hard.
package reconcile

import (
	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/catalog"
	"github.com/sentaku/assess-core/internal/normalize"
	"github.com/sentaku/assess-core/internal/record"
)

// ErrNoRows signals a structurally absent row sequence.
var ErrNoRows = errors.New("no rows to reconcile")

// one imported row. Rating carries the human-readable 評価 label
// when the source supplies it - diagnostic only, scoring reads
// RawScore exclusively.
type Row struct {
	Category string
	Name     string
	RawScore string
	Rating   string
	Memo     string
}

// outcome of one reconciliation pass. Scores and Memos cover
// every catalog position, nil meaning unmatched or unscored.
type Result struct {
	Scores record.ScoreMap
	Memos  record.MemoMap
	// rows whose item matched and whose score was valid
	MatchCount int
	TotalRows  int
	// rows whose composite key is not in the catalog
	Unmatched int
	// keys assigned by more than one row in this import
	DuplicateKeys map[string]struct{}
	// catalog-authoring defects found while indexing
	Collisions []catalog.Collision
}

// matches rows against the catalog and produces complete
// score/memo maps. duplicate keys within one import follow
// last-write-wins: the later row's score and memo replace the
// earlier row's.
func Reconcile(items []catalog.Item, rows []Row) (Result, error) {

	idx, collisions, err := catalog.BuildIndex(items)
	if err != nil {
		return Result{}, err
	}
	if rows == nil {
		return Result{}, ErrNoRows
	}

	res := Result{
		Scores:        make(record.ScoreMap, len(items)),
		Memos:         make(record.MemoMap, len(items)),
		TotalRows:     len(rows),
		DuplicateKeys: make(map[string]struct{}),
		Collisions:    collisions,
	}
	// total coverage: every position gets an explicit entry up
	// front so "not scored" is always distinguishable downstream
	for pos := range items {
		res.Scores[pos] = nil
		res.Memos[pos] = nil
	}

	assigned := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		key := catalog.Key(row.Category, row.Name)
		pos, ok := idx[key]
		if !ok {
			res.Unmatched++
			continue
		}

		if _, dup := assigned[key]; dup {
			res.DuplicateKeys[key] = struct{}{}
			// last write wins: fall through and overwrite
		}
		assigned[key] = struct{}{}

		if score := normalize.Score(row.RawScore); score != nil {
			res.Scores[pos] = score
			res.MatchCount++
		} else {
			// matched item, no usable score - position stays nil
			res.Scores[pos] = nil
		}

		if row.Memo != "" {
			memo := row.Memo
			res.Memos[pos] = &memo
		} else {
			res.Memos[pos] = nil
		}
	}

	return res, nil
}
