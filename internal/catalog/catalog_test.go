package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{Category: "職業生活", Name: "欠席等の連絡", Description: "事前に連絡できる"},
		{Category: "職業生活", Name: "身だしなみ"},
		{Category: "作業力", Name: "正確性"},
	}
}

func TestKeyNormalizes(t *testing.T) {
	// whitespace and full-width space drift must not change the key
	assert.Equal(t, Key("職業生活", "欠席等の連絡"), Key("職業生活　", " 欠席等の連絡"))
	assert.Equal(t, "職業生活__欠席等の連絡", Key("職業生活", "欠席等の連絡"))
}

func TestBuildIndex(t *testing.T) {
	idx, collisions, err := BuildIndex(testItems())
	require.NoError(t, err)
	assert.Empty(t, collisions)
	assert.Len(t, idx, 3)
	assert.Equal(t, 0, idx[Key("職業生活", "欠席等の連絡")])
	assert.Equal(t, 2, idx[Key("作業力", "正確性")])
}

func TestBuildIndexEmptyCatalog(t *testing.T) {
	_, _, err := BuildIndex(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestBuildIndexCollision(t *testing.T) {
	items := []Item{
		{Category: "職業生活", Name: "挨拶"},
		{Category: "職業生活　", Name: " 挨拶"}, // normalizes to the same key
		{Category: "作業力", Name: "正確性"},
	}
	idx, collisions, err := BuildIndex(items)
	require.NoError(t, err)
	require.Len(t, collisions, 1)
	assert.Equal(t, 0, collisions[0].First)
	assert.Equal(t, 1, collisions[0].Later)
	// first-seen mapping survives
	assert.Equal(t, 0, idx[Key("職業生活", "挨拶")])
}

func TestParseBareArray(t *testing.T) {
	data := []byte(`[{"category":"職業生活","name":"挨拶","description":"d"}]`)
	items, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "職業生活", items[0].Category)
	assert.Equal(t, "挨拶", items[0].Name)
	assert.Equal(t, "d", items[0].Description)
}

func TestParseWrappedObject(t *testing.T) {
	data := []byte(`{"items":[{"category":"c","name":"n"}]}`)
	items, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Category)
}

func TestParseRejectsEmptyOrInvalid(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = Parse([]byte(`{"items":{}}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestSnapshotIsIndependent(t *testing.T) {
	items := testItems()
	snap := Snapshot(items)
	items[0].Name = "changed"
	assert.Equal(t, "欠席等の連絡", snap[0].Name)
}
