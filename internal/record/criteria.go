package record

// rating labels for the five score levels, as shown to
// evaluators and written to the 評価 column on export. the label
// is display-only: imports must never derive a score from it.
var scoreLabels = map[int]string{
	1: "非常に困難",
	2: "支援が必要",
	3: "普通",
	4: "良好",
	5: "非常に良好",
}

// ScoreLabel returns the human-readable rating for a score,
// empty for anything outside the 1-5 domain.
func ScoreLabel(score int) string {
	return scoreLabels[score]
}
