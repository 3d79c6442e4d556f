package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		prev     *Combo
		expected ComboType
	}{
		{
			name:     "Single",
			cards:    []Card{{Suit: Sword, Rank: 7}},
			expected: Single,
		},
		{
			name:     "Pair",
			cards:    []Card{{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 7}},
			expected: Pair,
		},
		{
			name:     "Trio",
			cards:    []Card{{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 7}, {Suit: Pagoda, Rank: 7}},
			expected: Trio,
		},
		{
			name:     "BombOf4",
			cards:    []Card{{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 7}, {Suit: Pagoda, Rank: 7}, {Suit: Star, Rank: 7}},
			expected: BombOf4,
		},
		{
			name: "Sequence of 5",
			cards: []Card{
				{Suit: Sword, Rank: 3}, {Suit: Jade, Rank: 4}, {Suit: Pagoda, Rank: 5},
				{Suit: Star, Rank: 6}, {Suit: Sword, Rank: 7},
			},
			expected: Sequence,
		},
		{
			name: "SequenceOfPairs of 3 pairs",
			cards: []Card{
				{Suit: Sword, Rank: 3}, {Suit: Jade, Rank: 3},
				{Suit: Sword, Rank: 4}, {Suit: Jade, Rank: 4},
				{Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 5},
			},
			expected: SequenceOfPairs,
		},
		{
			name: "FullHouse",
			cards: []Card{
				{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 7}, {Suit: Pagoda, Rank: 7},
				{Suit: Sword, Rank: 9}, {Suit: Jade, Rank: 9},
			},
			expected: FullHouse,
		},
		{
			name: "SequenceBomb",
			cards: []Card{
				{Suit: Sword, Rank: 3}, {Suit: Sword, Rank: 4}, {Suit: Sword, Rank: 5},
				{Suit: Sword, Rank: 6}, {Suit: Sword, Rank: 7},
			},
			expected: SequenceBomb,
		},
		{
			name:     "Phoenix completes a pair",
			cards:    []Card{{Suit: Sword, Rank: 7}, {Suit: Phoenix, Rank: NoRank}},
			expected: Pair,
		},
		{
			name: "Phoenix fills an internal sequence gap",
			cards: []Card{
				{Suit: Sword, Rank: 3}, {Suit: Jade, Rank: 4}, {Suit: Phoenix, Rank: NoRank},
				{Suit: Star, Rank: 6}, {Suit: Sword, Rank: 7},
			},
			expected: Sequence,
		},
		{
			name:     "Invalid: Dragon in a pair",
			cards:    []Card{{Suit: Dragon, Rank: NoRank}, {Suit: Sword, Rank: 7}},
			expected: Invalid,
		},
		{
			name:     "Invalid: non-consecutive pairs",
			cards:    []Card{{Suit: Sword, Rank: 3}, {Suit: Jade, Rank: 3}, {Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 5}},
			expected: Invalid,
		},
		{
			name:     "Invalid: too few cards for a shape",
			cards:    []Card{{Suit: Sword, Rank: 3}, {Suit: Jade, Rank: 5}, {Suit: Pagoda, Rank: 9}},
			expected: Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.cards, tt.prev)
			gotType := Invalid
			if got != nil {
				gotType = got.Type
			}
			assert.Equal(t, tt.expected, gotType)
		})
	}
}

func TestClassifySinglePhoenixFollowsStandard(t *testing.T) {
	prev := &Combo{Type: Single, Value: 9, Cards: []Card{{Suit: Sword, Rank: 9}}}
	combo := Classify([]Card{{Suit: Phoenix, Rank: NoRank}}, prev)
	if assert.NotNil(t, combo) {
		assert.Equal(t, 9, combo.Value)
	}
}

func TestClassifySinglePhoenixLeadsBelowMinimum(t *testing.T) {
	combo := Classify([]Card{{Suit: Phoenix, Rank: NoRank}}, nil)
	if assert.NotNil(t, combo) {
		assert.Equal(t, PhoenixBelowMin, combo.Value)
	}
}

func TestClassifyFullHouseTwoPairsPhoenixPrefersHigherTrio(t *testing.T) {
	cards := []Card{
		{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 7},
		{Suit: Sword, Rank: 9}, {Suit: Jade, Rank: 9},
		{Suit: Phoenix, Rank: NoRank},
	}
	combo := Classify(cards, nil)
	if assert.NotNil(t, combo) {
		assert.Equal(t, FullHouse, combo.Type)
		assert.Equal(t, 9, combo.Value)
	}
}

func TestClassifyRejectsTwoPhoenixes(t *testing.T) {
	cards := []Card{{Suit: Phoenix, Rank: NoRank}, {Suit: Phoenix, Rank: NoRank}}
	assert.Nil(t, Classify(cards, nil))
}
