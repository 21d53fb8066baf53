// csv decode/encode for the eleven-column interchange shape the
// assessment app has always used. column association is by
// header name, never by position, so column reordering in
// external edits is harmless.
package csvio

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sentaku/assess-core/internal/normalize"
	"github.com/sentaku/assess-core/internal/reconcile"
	"github.com/sentaku/assess-core/internal/record"
)

// interchange column names
const (
	colEntryDate  = "記入日"
	colClientName = "利用者名"
	colMgmtNumber = "管理番号"
	colEvaluator  = "評価実施者名"
	colStartDate  = "評価期間開始"
	colEndDate    = "評価期間終了"
	colCategory   = "カテゴリ"
	colItem       = "項目"
	colScore      = "スコア"
	colRating     = "評価"
	colMemo       = "メモ"
)

var header = []string{
	colEntryDate, colClientName, colMgmtNumber, colEvaluator,
	colStartDate, colEndDate, colCategory, colItem,
	colScore, colRating, colMemo,
}

// ErrMissingColumns signals a header without the matching essentials.
var ErrMissingColumns = errors.New("csv is missing required columns (カテゴリ, 項目, スコア)")

// ErrNoHeader signals input without a parseable header row.
var ErrNoHeader = errors.New("csv has no header row")

// everything extracted from one import file: the per-item rows
// for reconciliation plus the basic info block taken from the
// first data row, dates already normalized.
type ParseResult struct {
	Rows      []reconcile.Row
	BasicInfo record.BasicInfo
}

// reads an exported assessment csv. tolerates a utf-8 byte-order
// marker (files exported by this app carry one, hand-made files
// may not) and ragged rows. an input with a valid header but no
// data rows yields an empty row sequence, not an error.
func Read(r io.Reader) (ParseResult, error) {

	// strip a BOM when present, pass utf-8 through otherwise
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err == io.EOF {
		return ParseResult{}, ErrNoHeader
	}
	if err != nil {
		return ParseResult{}, errors.Wrap(err, "read csv header")
	}

	colIdx := make(map[string]int, len(head))
	for i, name := range head {
		colIdx[normalize.Text(name)] = i
	}
	if _, ok := colIdx[colCategory]; !ok {
		return ParseResult{}, ErrMissingColumns
	}
	if _, ok := colIdx[colItem]; !ok {
		return ParseResult{}, ErrMissingColumns
	}
	if _, ok := colIdx[colScore]; !ok {
		return ParseResult{}, ErrMissingColumns
	}

	field := func(rowVals []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(rowVals) {
			return ""
		}
		return rowVals[i]
	}

	var res ParseResult
	first := true
	for {
		vals, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ParseResult{}, errors.Wrap(err, "read csv row")
		}

		if first {
			res.BasicInfo = record.BasicInfo{
				ClientName:       field(vals, colClientName),
				ManagementNumber: field(vals, colMgmtNumber),
				EvaluatorName:    field(vals, colEvaluator),
				EntryDate:        normalize.Date(field(vals, colEntryDate)),
				StartDate:        normalize.Date(field(vals, colStartDate)),
				EndDate:          normalize.Date(field(vals, colEndDate)),
			}
			first = false
		}

		res.Rows = append(res.Rows, reconcile.Row{
			Category: field(vals, colCategory),
			Name:     field(vals, colItem),
			RawScore: field(vals, colScore),
			Rating:   field(vals, colRating),
			Memo:     field(vals, colMemo),
		})
	}

	if res.Rows == nil {
		res.Rows = []reconcile.Row{}
	}
	return res, nil
}
