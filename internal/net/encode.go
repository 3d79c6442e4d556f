package net

import (
	"github.com/larrybui/tichu-server/internal/domain"
	"github.com/larrybui/tichu-server/internal/session"
	"github.com/larrybui/tichu-server/internal/wire"
)

var eventOpcodes = map[session.EventKind]byte{
	session.EventUserIDAssigned:       wire.OpSUserIdAssigned,
	session.EventGameState:            wire.OpSGameState,
	session.EventGameStageChanged:     wire.OpSGameStageChanged,
	session.EventUserJoined:           wire.OpSUserJoined,
	session.EventUserLeft:             wire.OpSUserLeft,
	session.EventUserDisconnected:     wire.OpSUserDisconnected,
	session.EventUserReconnected:      wire.OpSUserReconnected,
	session.EventOwnerReassigned:      wire.OpSOwnerReassigned,
	session.EventUserMovedToTeamA:     wire.OpSUserMovedToTeamA,
	session.EventUserMovedToTeamB:     wire.OpSUserMovedToTeamB,
	session.EventTeamARenamed:         wire.OpSTeamARenamed,
	session.EventTeamBRenamed:         wire.OpSTeamBRenamed,
	session.EventGrandTichuCalled:     wire.OpSGrandTichuCalled,
	session.EventSmallTichuCalled:     wire.OpSSmallTichuCalled,
	session.EventTradeSubmitted:       wire.OpSTradeSubmitted,
	session.EventCardsPlayed:          wire.OpSCardsPlayed,
	session.EventUserPassed:           wire.OpSUserPassed,
	session.EventFirstCardsDealt:      wire.OpSFirstCardsDealt,
	session.EventLastCardsDealt:       wire.OpSLastCardsDealt,
	session.EventPlayerReceivedDragon: wire.OpSPlayerReceivedDragon,
	session.EventGameEnded:            wire.OpSGameEnded,
	session.EventGameEndedFinal:       wire.OpSGameEndedFinal,
	session.EventUnexpectedMessage:    wire.OpSUnexpectedMessageReceived,
}

// encodeOutbound serializes one session.Outbound into a complete wire
// frame: the event's own fields, followed by an optional full state
// snapshot.
func encodeOutbound(ob session.Outbound) []byte {
	opcode, ok := eventOpcodes[ob.Event.Kind]
	if !ok {
		opcode = wire.OpSUnexpectedMessageReceived
	}
	w := wire.NewWriter(opcode)
	w.WriteS(ob.Event.UserID)
	w.WriteS(ob.Event.Text)
	w.WriteC(byte(ob.Event.Call))

	if ob.State == nil {
		w.WriteC(0)
	} else {
		w.WriteC(1)
		encodeState(w, ob.State)
	}
	return w.Bytes()
}

func encodeState(w *wire.Writer, s *session.GameStateView) {
	w.WriteS(s.GameID)
	w.WriteS(s.Code)
	w.WriteS(s.OwnerID)
	w.WriteC(byte(s.Stage))
	w.WriteD(int32(s.Round))

	w.WriteC(byte(len(s.Players)))
	for _, p := range s.Players {
		w.WriteS(p.UserID)
		w.WriteS(p.DisplayName)
		w.WriteC(byte(p.Role))
		w.WriteC(boolByte(p.Connected))
		w.WriteC(byte(p.HandSize))
		w.WriteCards(p.Hand)
		w.WriteC(byte(p.TricksCount))
		w.WriteC(byte(p.GrandTichu))
		w.WriteC(byte(p.SmallTichu))
		w.WriteC(boolByte(p.HasPlayedFirstCard))
		w.WriteC(boolByte(p.Finished))
	}

	for _, t := range s.Teams {
		w.WriteS(t.ID)
		w.WriteS(t.Name)
		w.WriteD(int32(t.Score))
		w.WriteC(byte(len(t.UserIDs)))
		for _, id := range t.UserIDs {
			w.WriteS(id)
		}
	}

	if s.Play == nil {
		w.WriteC(0)
	} else {
		w.WriteC(1)
		w.WriteS(s.Play.TurnUserID)
		w.WriteC(byte(len(s.Play.Table)))
		for _, combo := range s.Play.Table {
			encodeCombo(w, combo)
		}
		w.WriteD(int32(s.Play.WishedRank))
		w.WriteC(boolByte(s.Play.AwaitingDragon))
		w.WriteC(byte(len(s.Play.FinishedOrder)))
		for _, id := range s.Play.FinishedOrder {
			w.WriteS(id)
		}
	}

	if s.Score == nil {
		w.WriteC(0)
	} else {
		w.WriteC(1)
		w.WriteC(byte(len(s.Score.RoundScores)))
		for teamID, points := range s.Score.RoundScores {
			w.WriteS(teamID)
			w.WriteD(int32(points))
		}
		w.WriteC(boolByte(s.Score.MatchEnded))
		w.WriteS(s.Score.WinningTeam)
	}
}

func encodeCombo(w *wire.Writer, c *domain.Combo) {
	w.WriteC(byte(c.Type))
	w.WriteCards(c.Cards)
	w.WriteS(c.UserID)
	w.WriteC(boolByte(c.HasDragon))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
