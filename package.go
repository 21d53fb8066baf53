// web service that manages scored assessments for a fixed catalog
// of items - evaluators score each catalog item 1-5 for a client,
// results are kept per client as an append-only history, and
// previously exported CSV results can be re-imported; the package
// reconciles imported rows back onto catalog positions tolerating
// whitespace and full/half-width drift in the source data.
package assesscore
