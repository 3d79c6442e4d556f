package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/larrybui/tichu-server/internal/session"
	"github.com/larrybui/tichu-server/internal/wire"
)

func newTestRegistry() *session.Registry {
	return session.NewRegistry(zap.NewNop())
}

func TestDispatchCreateGameThenLeaveWithoutGame(t *testing.T) {
	reg := newTestRegistry()

	owner := reg.Connect("", make(chan session.Outbound, 8))
	w := wire.NewWriter(wire.OpCreateGame)
	w.WriteS("Alice")
	require.NoError(t, dispatch(reg, owner, w.Bytes()))

	w2 := wire.NewWriter(wire.OpLeaveGame)
	joiner := reg.Connect("", make(chan session.Outbound, 8))
	// Leaving a game you're not in is an error, not a crash.
	assert.Error(t, dispatch(reg, joiner, w2.Bytes()))
}

func TestDispatchUnknownOpcodeReturnsError(t *testing.T) {
	reg := newTestRegistry()
	userID := reg.Connect("", make(chan session.Outbound, 8))
	err := dispatch(reg, userID, []byte{0xFF})
	assert.Error(t, err)
}

func TestDispatchMoveToTeamDecodesSelector(t *testing.T) {
	reg := newTestRegistry()
	owner := reg.Connect("", make(chan session.Outbound, 8))

	wCreate := wire.NewWriter(wire.OpCreateGame)
	wCreate.WriteS("Alice")
	require.NoError(t, dispatch(reg, owner, wCreate.Bytes()))

	wMove := wire.NewWriter(wire.OpMoveToTeam)
	wMove.WriteC(byte(wire.TeamSelectorA))
	assert.NoError(t, dispatch(reg, owner, wMove.Bytes()))
}
