package assesscore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/catalog"
	"github.com/sentaku/assess-core/internal/csvio"
	"github.com/sentaku/assess-core/internal/kv"
	"github.com/sentaku/assess-core/internal/normalize"
	"github.com/sentaku/assess-core/internal/reconcile"
	"github.com/sentaku/assess-core/internal/record"
	"github.com/sentaku/assess-core/internal/util"
)

type AssessmentService struct {
	// embedded web server to handle assessment requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// file path or url of the item catalog (items.json)
	catalogSource string
	// sqlite file backing the record store; empty runs in-memory
	storePath string
	// the loaded, ordered item catalog
	items []catalog.Item
	// key-value backend behind the record store
	backend kv.Store
	// per-client assessment histories
	store *record.Store
}

// payload for saving an assessment entered directly against the
// live catalog. scores/memos are keyed by catalog position.
type SaveRequest struct {
	BasicInfo record.BasicInfo `json:"basicInfo"`
	Scores    record.ScoreMap  `json:"scores"`
	Memos     record.MemoMap   `json:"memos"`
}

// create a new service instance
func New(options ...Option) (*AssessmentService, error) {

	srvc := AssessmentService{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}

	items, err := catalog.Load(srvc.catalogSource)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load item catalog")
	}
	srvc.items = items

	if srvc.storePath != "" {
		srvc.backend, err = kv.OpenSQLite(srvc.storePath)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open record store")
		}
	} else {
		srvc.backend = kv.NewMemory()
	}
	srvc.store = record.NewStore(srvc.backend)

	srvc.e = echo.New()
	srvc.e.Logger.SetLevel(log.INFO)

	// catalog authoring defects are diagnosable, not fatal
	if _, collisions, err := catalog.BuildIndex(items); err == nil {
		for _, c := range collisions {
			srvc.e.Logger.Warnf("catalog key collision %q: positions %d and %d", c.Key, c.First, c.Later)
		}
	}

	// add pingable method to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	srvc.e.GET("/catalog", srvc.buildCatalogHandler())
	srvc.e.POST("/assessments", srvc.buildSaveHandler())
	srvc.e.GET("/assessments", srvc.buildListHandler())
	srvc.e.GET("/assessments/:id", srvc.buildFindHandler())
	srvc.e.DELETE("/assessments/:id", srvc.buildDeleteHandler())
	srvc.e.POST("/import", srvc.buildImportHandler())
	srvc.e.GET("/export", srvc.buildExportHandler())

	return &srvc, nil
}

// start the service running
func (s *AssessmentService) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

// returns the live catalog so front-ends can render the item
// list in declared order
func (s *AssessmentService) buildCatalogHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": s.items,
			"count": len(s.items),
		})
	}
}

// saves an assessment entered against the live catalog.
// requires the basic info block complete and at least one
// scored item.
func (s *AssessmentService) buildSaveHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &SaveRequest{}
		if err := c.Bind(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		bi := req.BasicInfo
		if bi.ClientName == "" || bi.EvaluatorName == "" ||
			bi.EntryDate == "" || bi.StartDate == "" || bi.EndDate == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "basic info is incomplete")
		}
		if record.ScoredCount(req.Scores) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "at least one item must be scored")
		}

		rec, key, err := s.makeRecord(bi, req.Scores, req.Memos)
		if err != nil {
			return storeError(err)
		}
		if err := s.store.Append(key, rec); err != nil {
			return storeError(err)
		}

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"id":           rec.ID,
			"clientKey":    key,
			"averageScore": record.AverageScore(rec.Scores),
		})
	}
}

// lists a client's history as summaries, insertion order
func (s *AssessmentService) buildListHandler() echo.HandlerFunc {

	type summary struct {
		ID           int64            `json:"id"`
		BasicInfo    record.BasicInfo `json:"basicInfo"`
		AverageScore float64          `json:"averageScore"`
		ScoredCount  int              `json:"scoredCount"`
		Timestamp    string           `json:"timestamp"`
	}

	return func(c echo.Context) error {
		key, err := record.ClientKey(c.QueryParam("client"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for client")
		}
		recs, err := s.store.List(key)
		if err != nil {
			return storeError(err)
		}
		summaries := make([]summary, 0, len(recs))
		for _, r := range recs {
			summaries = append(summaries, summary{
				ID:           r.ID,
				BasicInfo:    r.BasicInfo,
				AverageScore: record.AverageScore(r.Scores),
				ScoredCount:  record.ScoredCount(r.Scores),
				Timestamp:    r.Timestamp,
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"assessments": summaries,
			"count":       len(summaries),
		})
	}
}

// returns one full record including its catalog snapshot
func (s *AssessmentService) buildFindHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		key, id, err := clientAndID(c)
		if err != nil {
			return err
		}
		rec, err := s.store.Find(key, id)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(http.StatusOK, rec)
	}
}

func (s *AssessmentService) buildDeleteHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		key, id, err := clientAndID(c)
		if err != nil {
			return err
		}
		if err := s.store.Remove(key, id); err != nil {
			return storeError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// imports a previously exported csv, reconciles it against the
// live catalog and appends the outcome to the client's history.
// rows that no longer match the catalog are tolerated and
// reported; a csv in which nothing matches is refused and no
// record is created.
func (s *AssessmentService) buildImportHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		defer util.TimeTrack(time.Now(), "csv import")

		parsed, err := csvio.Read(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if parsed.BasicInfo.ClientName == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "csv carries no client name (利用者名)")
		}

		res, err := reconcile.Reconcile(s.items, parsed.Rows)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if res.MatchCount == 0 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				"no rows matched the current catalog - check category and item names")
		}
		if res.Unmatched > 0 {
			s.e.Logger.Warnf("csv import: %d of %d rows did not match the catalog", res.Unmatched, res.TotalRows)
		}

		rec, key, err := s.makeRecord(parsed.BasicInfo, res.Scores, res.Memos)
		if err != nil {
			return storeError(err)
		}
		if err := s.store.Append(key, rec); err != nil {
			return storeError(err)
		}

		duplicates := make([]string, 0, len(res.DuplicateKeys))
		for k := range res.DuplicateKeys {
			duplicates = append(duplicates, k)
		}

		return c.JSON(http.StatusCreated, map[string]interface{}{
			"id":            rec.ID,
			"clientKey":     key,
			"matchCount":    res.MatchCount,
			"totalRows":     res.TotalRows,
			"unmatched":     res.Unmatched,
			"duplicateKeys": duplicates,
			"averageScore":  record.AverageScore(rec.Scores),
		})
	}
}

// exports one stored record in the interchange csv shape
func (s *AssessmentService) buildExportHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		key, id, err := clientAndID(c)
		if err != nil {
			return err
		}
		rec, err := s.store.Find(key, id)
		if err != nil {
			return storeError(err)
		}

		filename := fmt.Sprintf("assessment_%s_%d.csv", strings.TrimPrefix(key, "assessments_"), rec.ID)
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, filename))
		c.Response().WriteHeader(http.StatusOK)

		return csvio.Write(c.Response(), rec)
	}
}

// assembles a record from validated inputs: normalizes dates,
// snapshots the catalog, pads the maps to total coverage and
// assigns a unique id within the client's history
func (s *AssessmentService) makeRecord(bi record.BasicInfo, scores record.ScoreMap, memos record.MemoMap) (record.AssessmentRecord, string, error) {

	key, err := record.ClientKey(bi.ClientName)
	if err != nil {
		return record.AssessmentRecord{}, "", err
	}

	bi.EntryDate = canonicalDate(bi.EntryDate)
	bi.StartDate = canonicalDate(bi.StartDate)
	bi.EndDate = canonicalDate(bi.EndDate)

	if scores == nil {
		scores = record.ScoreMap{}
	}
	if memos == nil {
		memos = record.MemoMap{}
	}
	// positions outside the live catalog cannot be rendered or
	// exported, drop them rather than persist orphans
	for pos := range scores {
		if pos < 0 || pos >= len(s.items) {
			delete(scores, pos)
		}
	}
	for pos := range memos {
		if pos < 0 || pos >= len(s.items) {
			delete(memos, pos)
		}
	}
	for pos := range s.items {
		if _, ok := scores[pos]; !ok {
			scores[pos] = nil
		}
		if _, ok := memos[pos]; !ok {
			memos[pos] = nil
		}
	}

	id := record.NewID()
	history, err := s.store.List(key)
	if err != nil {
		return record.AssessmentRecord{}, "", err
	}
	for _, r := range history {
		if r.ID >= id {
			id = r.ID + 1
		}
	}

	rec := record.AssessmentRecord{
		ID:        id,
		BasicInfo: bi,
		Scores:    scores,
		Memos:     memos,
		Items:     catalog.Snapshot(s.items),
		Timestamp: record.Now(),
	}
	return rec, key, nil
}

// canonical YYYY-MM-DD when one can be derived, otherwise the
// original value passes through so odd historical data is kept
// rather than blanked
func canonicalDate(s string) string {
	if iso := normalize.Date(s); iso != "" {
		return iso
	}
	return s
}

func clientAndID(c echo.Context) (string, int64, error) {
	key, err := record.ClientKey(c.QueryParam("client"))
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "must supply a value for client")
	}
	// id arrives as a path param on the record routes and as a
	// query param on /export
	raw := c.Param("id")
	if raw == "" {
		raw = c.QueryParam("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "assessment id must be an integer")
	}
	return key, id, nil
}

func storeError(err error) error {
	switch errors.Cause(err) {
	case record.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	case record.ErrInvalidClientKey:
		return echo.NewHTTPError(http.StatusBadRequest, "client name is blank or unusable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// shut the server down gracefully
func (s *AssessmentService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}
	if err := s.backend.Close(); err != nil {
		s.e.Logger.Warnf("could not close record store: %v", err)
	}

}

func (s *AssessmentService) PrintConfig() {

	fmt.Println("\n\tAssess-Core Service Configuration")
	fmt.Println("\t---------------------------------")
	fmt.Println()

	s.printID()
	s.printSourcesConfig()

}

func (s *AssessmentService) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *AssessmentService) printSourcesConfig() {
	fmt.Println("\tcatalog source:\t\t", s.catalogSource)
	fmt.Println("\tcatalog items:\t\t", len(s.items))
	storeDesc := s.storePath
	if storeDesc == "" {
		storeDesc = "(in-memory)"
	}
	fmt.Println("\trecord store:\t\t", storeDesc)
}
