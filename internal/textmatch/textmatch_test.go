package textmatch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("Fluffy", "  fluffy "))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.InDelta(t, 0.9, Ratio("cappucino", "cappuccino"), 1e-9)

	r := Ratio("kitten", "sitting")
	assert.InDelta(t, 1-3.0/7.0, r, 1e-9)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, containScore, Similarity("vanilla", "vanilla syrup"))
	assert.Equal(t, containScore, Similarity("a large oat latte", "oat"))
	assert.Equal(t, 1.0, Similarity("Latte", "latte"))
	assert.Less(t, Similarity("ic", "extra ice"), 0.5)
}

func TestBestMatch(t *testing.T) {
	drinks := []string{"latte", "cappuccino", "americano", "mocha"}

	m, ok := BestMatch("capuccino", drinks, 0.7)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, "cappuccino", m.Value)

	m, ok = BestMatch("latte", append([]string{"chai latte"}, drinks...), 0.7)
	assert.True(t, ok)
	assert.Equal(t, "latte", m.Value)

	_, ok = BestMatch("green tea", drinks, 0.7)
	assert.False(t, ok)

	_, ok = BestMatch("latte", nil, 0.1)
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	names := []string{"Amul Taaza Milk 500ml", "Brown Bread", "Mother Dairy Milk 1L", "Banana Robusta"}

	got := Search("milk", names)
	assert.ElementsMatch(t, []int{0, 2}, got)

	if diff := cmp.Diff([]int{0, 1, 2, 3}, Search("  ", names)); diff != "" {
		t.Errorf("empty pattern mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Search("zzz", names))
}

func TestWords(t *testing.T) {
	got := Words("A loop repeats, a LOOP stops! Why?")
	want := []string{"a", "loop", "repeats", "stops", "why"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Words() mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordOverlap(t *testing.T) {
	overlap, total := KeywordOverlap("Variables store values.", "a variables thing that can store stuff")
	assert.Equal(t, 2, overlap)
	assert.Equal(t, 3, total)

	overlap, total = KeywordOverlap("", "anything")
	assert.Zero(t, overlap)
	assert.Zero(t, total)
}
