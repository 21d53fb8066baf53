package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestClientKey(t *testing.T) {
	key, err := ClientKey("yamada taro")
	require.NoError(t, err)
	assert.Equal(t, "assessments_yamada_taro", key)

	// each rune outside the safe set becomes one underscore
	key, err = ClientKey("山田太郎")
	require.NoError(t, err)
	assert.Equal(t, "assessments_"+"____", key)

	key, err = ClientKey("  User.01-a_b  ")
	require.NoError(t, err)
	assert.Equal(t, "assessments_User.01-a_b", key)
}

func TestClientKeyRefusesBlank(t *testing.T) {
	_, err := ClientKey("")
	assert.ErrorIs(t, err, ErrInvalidClientKey)
	_, err = ClientKey("   ")
	assert.ErrorIs(t, err, ErrInvalidClientKey)
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(ScoreMap{}))
	assert.Equal(t, 0.0, AverageScore(nil))
	assert.Equal(t, 0.0, AverageScore(ScoreMap{0: nil, 1: nil}))
	assert.Equal(t, 4.0, AverageScore(ScoreMap{0: intp(3), 1: nil, 2: intp(5)}))
	assert.Equal(t, 3.0, AverageScore(ScoreMap{0: intp(3)}))
}

func TestScoredCount(t *testing.T) {
	assert.Equal(t, 0, ScoredCount(ScoreMap{0: nil}))
	assert.Equal(t, 2, ScoredCount(ScoreMap{0: intp(1), 1: nil, 2: intp(2)}))
}

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, "非常に困難", ScoreLabel(1))
	assert.Equal(t, "普通", ScoreLabel(3))
	assert.Equal(t, "非常に良好", ScoreLabel(5))
	assert.Equal(t, "", ScoreLabel(0))
	assert.Equal(t, "", ScoreLabel(6))
}

func TestScoreMapJSONKeepsExplicitNull(t *testing.T) {
	m := ScoreMap{0: intp(3), 1: nil}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0":3,"1":null}`, string(data))

	var back ScoreMap
	require.NoError(t, json.Unmarshal(data, &back))
	require.Contains(t, back, 1)
	assert.Nil(t, back[1])
	require.NotNil(t, back[0])
	assert.Equal(t, 3, *back[0])
}
