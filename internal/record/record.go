// assessment records and the per-client history store. a record
// is the saved outcome of one assessment: who was assessed, the
// score/memo maps keyed by catalog position, and a snapshot of
// the catalog the scores were entered against.
package record

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/catalog"
)

// ErrInvalidClientKey signals a blank or unusable client name.
var ErrInvalidClientKey = errors.New("invalid client key")

// ErrNotFound signals a lookup for an id a client's history does not hold.
var ErrNotFound = errors.New("record not found")

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ScoreMap holds one entry per catalog position. a nil value is
// the explicit "not scored" state - distinct from absent, never
// rendered as zero.
type ScoreMap map[int]*int

// MemoMap holds one free-text note per catalog position, nil when none.
type MemoMap map[int]*string

// BasicInfo is the header block of an assessment.
type BasicInfo struct {
	ClientName       string `json:"userName"`
	ManagementNumber string `json:"managementNumber,omitempty"`
	EvaluatorName    string `json:"evaluatorName"`
	EntryDate        string `json:"entryDate"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
}

// one completed assessment. immutable once appended to a
// client's history; Items is the catalog snapshot taken at save
// time so the record stays readable if the live catalog changes.
type AssessmentRecord struct {
	ID        int64          `json:"id"`
	BasicInfo BasicInfo      `json:"basicInfo"`
	Scores    ScoreMap       `json:"scores"`
	Memos     MemoMap        `json:"memos"`
	Items     []catalog.Item `json:"items"`
	Timestamp string         `json:"timestamp"`
}

// NewID produces a record id from the creation instant,
// millisecond resolution.
func NewID() int64 {
	return time.Now().UnixMilli()
}

// Now is the record timestamp format, RFC3339 in UTC.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// derives the storage key for a client's history. any character
// outside [A-Za-z0-9._-] is replaced with an underscore; a blank
// client name has no usable key and every store operation
// refuses it.
func ClientKey(clientName string) (string, error) {
	trimmed := strings.TrimSpace(clientName)
	if trimmed == "" {
		return "", ErrInvalidClientKey
	}
	return "assessments_" + unsafeKeyChars.ReplaceAllString(trimmed, "_"), nil
}

// mean of all non-nil scores; 0 when nothing is scored, by
// convention, so display paths always have a number to render.
func AverageScore(scores ScoreMap) float64 {
	sum, n := 0, 0
	for _, s := range scores {
		if s == nil {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// ScoredCount reports how many positions carry a non-nil score.
func ScoredCount(scores ScoreMap) int {
	n := 0
	for _, s := range scores {
		if s != nil {
			n++
		}
	}
	return n
}
