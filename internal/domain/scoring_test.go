package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardPoints(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"five", []Card{{Suit: Sword, Rank: 5}}, 5},
		{"ten", []Card{{Suit: Sword, Rank: 10}}, 10},
		{"king", []Card{{Suit: Sword, Rank: 13}}, 10},
		{"phoenix", []Card{{Suit: Phoenix, Rank: NoRank}}, -25},
		{"dragon", []Card{{Suit: Dragon, Rank: NoRank}}, 25},
		{"blank rank", []Card{{Suit: Sword, Rank: 7}}, 0},
		{"mixed trick", []Card{{Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 13}, {Suit: Pagoda, Rank: 2}}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CardPoints(tt.cards))
		})
	}
}
