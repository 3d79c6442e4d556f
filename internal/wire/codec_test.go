package wire

import (
	"testing"

	"github.com/larrybui/tichu-server/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(OpPlayCards)
	w.WriteS("user-123")
	w.WriteD(9)
	w.WriteCards([]domain.Card{
		{Suit: domain.Sword, Rank: 7},
		{Suit: domain.Phoenix, Rank: domain.NoRank},
	})

	r := NewReader(w.Bytes())
	require.Equal(t, OpPlayCards, r.Opcode())
	require.Equal(t, "user-123", r.ReadS())
	require.Equal(t, int32(9), r.ReadD())
	cards := r.ReadCards()
	require.Equal(t, []domain.Card{
		{Suit: domain.Sword, Rank: 7},
		{Suit: domain.Phoenix, Rank: domain.NoRank},
	}, cards)
	require.Equal(t, 0, r.Remaining())
}

func TestReaderClampsOutOfBoundsReads(t *testing.T) {
	r := NewReader([]byte{OpPing})
	require.Equal(t, byte(0), r.ReadC())
	require.Equal(t, uint16(0), r.ReadH())
	require.Equal(t, int32(0), r.ReadD())
	require.Equal(t, "", r.ReadS())
}

func TestWriteSLengthPrefix(t *testing.T) {
	w := NewWriter(OpRenameTeam)
	w.WriteC(byte(TeamSelectorA))
	w.WriteS("The Dragons")

	r := NewReader(w.Bytes())
	require.Equal(t, byte(TeamSelectorA), r.ReadC())
	require.Equal(t, "The Dragons", r.ReadS())
}
