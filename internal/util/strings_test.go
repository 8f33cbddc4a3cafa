package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"nil slice", nil, "(none)"},
		{"empty slice", []string{}, "(none)"},
		{"single item", []string{"host1"}, "host1"},
		{"multiple items", []string{"host1", "host2", "host3"}, "host1, host2, host3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinOrNone(tt.items))
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "-", JoinOrDefault(nil, "-"))
	assert.Equal(t, "a, b", JoinOrDefault([]string{"a", "b"}, "-"))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "issues"},
		{1, "issue"},
		{2, "issues"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "issue", "issues"))
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"gpu", "gup", 2},
		{"gpu", "gpus", 1},
		{"kitten", "sitting", 3},
		{"신양", "신향", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"gpu", "inventory"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"plural", "gpus", []string{"gpu"}},
		{"case insensitive", "GPU", []string{"gpu"}},
		{"transposition in long name", "inventroy", []string{"inventory"}},
		{"short typo beyond limit", "gup", nil},
		{"no close match", "status", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, candidates))
		})
	}
}

func TestSuggestSimilar_OrdersByDistance(t *testing.T) {
	got := SuggestSimilar("inventor", []string{"inventors", "inventory", "invent"})
	assert.Equal(t, []string{"inventors", "inventory", "invent"}, got)
}

func TestSuggestSimilar_EmptyCandidates(t *testing.T) {
	assert.Nil(t, SuggestSimilar("gpu", nil))
	assert.Nil(t, SuggestSimilar("gpu", []string{}))
}
