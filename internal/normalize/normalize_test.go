package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"職業生活", "職業生活"},
		{"職業生活　", "職業生活"}, // trailing full-width space
		{" 欠席等の連絡", "欠席等の連絡"}, // leading ascii space
		{"a  b\tc", "a b c"},  // runs collapse
		{"line\nbreak\r\ngone", "line break gone"},
		{"　全角　区切り　", "全角 区切り"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Text(c.in), "Text(%q)", c.in)
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{"", "  a  b  ", "職業生活　", "x\n\ny", "　１　２　"}
	for _, s := range inputs {
		once := Text(s)
		assert.Equal(t, once, Text(once), "Text not idempotent for %q", s)
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345", Digits("１２３４５"))
	assert.Equal(t, "0a9？", Digits("０a９？"))
	assert.Equal(t, "no digits", Digits("no digits"))
	assert.Equal(t, "", Digits(""))
}

func TestScore(t *testing.T) {
	three := 3
	five := 5
	one := 1
	cases := []struct {
		in   string
		want *int
	}{
		{"3", &three},
		{" 3 ", &three},
		{"３", &three},
		{"　５　", &five},
		{"1", &one},
		{"5", &five},
		{"0", nil},
		{"6", nil},
		{"-1", nil},
		{"3.5", nil},
		{"abc", nil},
		{"", nil},
		{"   ", nil},
		{"3 5", nil},
	}
	for _, c := range cases {
		got := Score(c.in)
		if c.want == nil {
			assert.Nil(t, got, "Score(%q)", c.in)
		} else {
			if assert.NotNil(t, got, "Score(%q)", c.in) {
				assert.Equal(t, *c.want, *got, "Score(%q)", c.in)
			}
		}
	}
}

func TestScoreFullWidthMatchesASCII(t *testing.T) {
	pairs := [][2]string{{"１", "1"}, {"２", "2"}, {"３", "3"}, {"４", "4"}, {"５", "5"}}
	for _, p := range pairs {
		fw := Score(p[0])
		ascii := Score(p[1])
		if assert.NotNil(t, fw) && assert.NotNil(t, ascii) {
			assert.Equal(t, *ascii, *fw)
		}
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-02-12", "2026-02-12"},
		{" 2026-02-12 ", "2026-02-12"},
		{"2026/2/1", "2026-02-01"},
		{"2026/12/31", "2026-12-31"},
		{"2026-2-1", "2026-02-01"},
		{"12/31/2026", ""},
		{"not a date", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Date(c.in), "Date(%q)", c.in)
	}
}
