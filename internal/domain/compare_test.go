package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func single(s Suit, r int) *Combo {
	return Classify([]Card{{Suit: s, Rank: r}}, nil)
}

func TestBeatsHigherSingleWins(t *testing.T) {
	prev := single(Sword, 7)
	next := single(Jade, 9)
	assert.True(t, Beats(prev, next))
	assert.False(t, Beats(next, prev))
}

func TestBeatsNilPrevAlwaysLoses(t *testing.T) {
	next := single(Sword, 2)
	assert.True(t, Beats(nil, next))
}

func TestBeatsDogOnlyLeads(t *testing.T) {
	dog := Classify([]Card{{Suit: Dog, Rank: NoRank}}, nil)
	assert.True(t, Beats(nil, dog))
	assert.False(t, Beats(single(Sword, 2), dog))
}

func TestBeatsDragonUnbeatableByNonBomb(t *testing.T) {
	dragon := Classify([]Card{{Suit: Dragon, Rank: NoRank}}, nil)
	ace := single(Sword, MaxRank)
	assert.False(t, Beats(dragon, ace))
}

func TestBeatsBombBeatsAnyNonBomb(t *testing.T) {
	prev := single(Sword, MaxRank)
	bomb := Classify([]Card{
		{Suit: Sword, Rank: 5}, {Suit: Jade, Rank: 5}, {Suit: Pagoda, Rank: 5}, {Suit: Star, Rank: 5},
	}, nil)
	assert.True(t, Beats(prev, bomb))
}

func TestBeatsSequenceBombBeatsBombOf4(t *testing.T) {
	bombOf4 := Classify([]Card{
		{Suit: Sword, Rank: MaxRank}, {Suit: Jade, Rank: MaxRank}, {Suit: Pagoda, Rank: MaxRank}, {Suit: Star, Rank: MaxRank},
	}, nil)
	seqBomb := Classify([]Card{
		{Suit: Sword, Rank: 3}, {Suit: Sword, Rank: 4}, {Suit: Sword, Rank: 5}, {Suit: Sword, Rank: 6}, {Suit: Sword, Rank: 7},
	}, nil)
	assert.True(t, Beats(bombOf4, seqBomb))
	assert.False(t, Beats(seqBomb, bombOf4))
}

func TestBeatsMahJongOnlyBeatsDogLead(t *testing.T) {
	dog := single(Dog, NoRank)
	mahJong := single(MahJong, NoRank)
	assert.True(t, Beats(dog, mahJong))
	ace := single(Sword, MaxRank)
	assert.False(t, Beats(ace, mahJong))
}

func TestBeatsPhoenixAlwaysBeatsTheSingleItFollows(t *testing.T) {
	prev := single(Sword, MaxRank)
	phoenix := Classify([]Card{{Suit: Phoenix, Rank: NoRank}}, prev)
	assert.True(t, Beats(prev, phoenix))
}

func TestCanSatisfyWish(t *testing.T) {
	hand := []Card{{Suit: Sword, Rank: 7}, {Suit: Jade, Rank: 9}, {Suit: Pagoda, Rank: 9}}
	assert.True(t, CanSatisfyWish(nil, hand, 9))
	assert.False(t, CanSatisfyWish(nil, hand, 11))
}

func TestCanSatisfyWishRespectsPrevStrength(t *testing.T) {
	prev := single(Sword, MaxRank)
	hand := []Card{{Suit: Jade, Rank: 5}}
	assert.False(t, CanSatisfyWish(prev, hand, 5))
}
