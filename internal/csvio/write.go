package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/record"
)

// utf-8 byte-order marker, expected by spreadsheet tools opening
// the export
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writes a record in the interchange shape: header plus one row
// per catalog position holding a non-nil score, in catalog
// order. item labels come from the record's own snapshot, so a
// record exports faithfully even after the live catalog moves
// on. memo line breaks are flattened to spaces.
func Write(w io.Writer, rec record.AssessmentRecord) error {

	if _, err := w.Write(utf8BOM); err != nil {
		return errors.Wrap(err, "write bom")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for pos, item := range rec.Items {
		score := rec.Scores[pos]
		if score == nil {
			continue
		}
		memo := ""
		if m := rec.Memos[pos]; m != nil {
			memo = strings.ReplaceAll(*m, "\n", " ")
		}
		row := []string{
			rec.BasicInfo.EntryDate,
			rec.BasicInfo.ClientName,
			rec.BasicInfo.ManagementNumber,
			rec.BasicInfo.EvaluatorName,
			rec.BasicInfo.StartDate,
			rec.BasicInfo.EndDate,
			item.Category,
			item.Name,
			strconv.Itoa(*score),
			record.ScoreLabel(*score),
			memo,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
