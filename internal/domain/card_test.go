package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasFiftySixUniqueCards(t *testing.T) {
	d := NewDeck()
	require.Equal(t, 56, d.Len())
	seen := make(map[Card]bool, 56)
	for _, c := range d.cards {
		require.Falsef(t, seen[c], "duplicate card %+v", c)
		seen[c] = true
	}
}

func TestDeckDrawRemovesFromEnd(t *testing.T) {
	d := NewDeck()
	want := append([]Card{}, d.cards[len(d.cards)-3:]...)
	got := d.Draw(3)
	assert.Equal(t, want, got)
	assert.Equal(t, 53, d.Len())
}

func TestDeckDrawClampsToRemaining(t *testing.T) {
	d := &Deck{cards: []Card{{Suit: Sword, Rank: 5}}}
	got := d.Draw(5)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, d.Len())
}

func TestSortHandOrdersSpecialsFirst(t *testing.T) {
	hand := []Card{
		{Suit: Star, Rank: 7},
		{Suit: Dragon, Rank: NoRank},
		{Suit: Sword, Rank: 7},
		{Suit: MahJong, Rank: NoRank},
	}
	SortHand(hand)
	want := []Suit{MahJong, Dragon, Sword, Star}
	for i, s := range want {
		assert.Equalf(t, s, hand[i].Suit, "position %d", i)
	}
}

func TestRemoveCardsMultiset(t *testing.T) {
	hand := []Card{{Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 5}, {Suit: Pagoda, Rank: 5}}
	remaining := RemoveCards(hand, []Card{{Suit: Jade, Rank: 5}})
	assert.Len(t, remaining, 2)
	for _, c := range remaining {
		assert.NotEqual(t, Jade, c.Suit)
	}
}

func TestHasCards(t *testing.T) {
	hand := []Card{{Suit: Sword, Rank: 5}, {Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 9}}
	assert.True(t, HasCards(hand, []Card{{Suit: Sword, Rank: 5}, {Suit: Sword, Rank: 5}}))
	assert.False(t, HasCards(hand, []Card{{Suit: Sword, Rank: 5}, {Suit: Sword, Rank: 5}, {Suit: Sword, Rank: 5}}))
}
