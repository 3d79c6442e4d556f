package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larrybui/tichu-server/internal/session"
	"github.com/larrybui/tichu-server/internal/wire"
)

func TestEncodeOutboundRoundTripsEventFields(t *testing.T) {
	ob := session.Outbound{Event: session.Event{
		Kind:   session.EventUserJoined,
		UserID: "user-1",
		Text:   "hello",
	}}
	frame := encodeOutbound(ob)

	r := wire.NewReader(frame)
	assert.Equal(t, wire.OpSUserJoined, r.Opcode())
	assert.Equal(t, "user-1", r.ReadS())
	assert.Equal(t, "hello", r.ReadS())
	r.ReadC() // call status
	hasState := r.ReadC()
	assert.Equal(t, byte(0), hasState)
}

func TestEncodeOutboundWithStateSetsFlag(t *testing.T) {
	ob := session.Outbound{
		Event: session.Event{Kind: session.EventGameState},
		State: &session.GameStateView{GameID: "g1", Code: "AB12"},
	}
	frame := encodeOutbound(ob)

	r := wire.NewReader(frame)
	require.Equal(t, wire.OpSGameState, r.Opcode())
	r.ReadS() // user id
	r.ReadS() // text
	r.ReadC() // call status
	hasState := r.ReadC()
	require.Equal(t, byte(1), hasState)
	assert.Equal(t, "g1", r.ReadS())
	assert.Equal(t, "AB12", r.ReadS())
}

func TestEncodeOutboundUnknownKindFallsBackToUnexpected(t *testing.T) {
	ob := session.Outbound{Event: session.Event{Kind: session.EventKind("bogus")}}
	frame := encodeOutbound(ob)
	r := wire.NewReader(frame)
	assert.Equal(t, wire.OpSUnexpectedMessageReceived, r.Opcode())
}
