package net

import (
	"fmt"

	"github.com/larrybui/tichu-server/internal/domain"
	"github.com/larrybui/tichu-server/internal/session"
	"github.com/larrybui/tichu-server/internal/wire"
)

// dispatch decodes one inbound frame and routes it to the matching
// registry operation. A non-nil error is reported back to the sender
// only, as an EventUnexpectedMessage; it never reaches other players.
func dispatch(reg *session.Registry, userID string, data []byte) error {
	r := wire.NewReader(data)

	switch r.Opcode() {
	case wire.OpPing, wire.OpPong:
		return nil

	case wire.OpCreateGame:
		displayName := r.ReadS()
		_, _, err := reg.CreateGame(userID, displayName)
		return err

	case wire.OpJoinGameWithGameCode:
		displayName := r.ReadS()
		code := r.ReadS()
		return reg.JoinGame(userID, displayName, code)

	case wire.OpLeaveGame:
		return reg.LeaveGame(userID)

	case wire.OpMoveToTeam:
		return reg.MoveToTeam(userID, teamIDFromSelector(wire.TeamSelector(r.ReadC())))

	case wire.OpRenameTeam:
		teamID := teamIDFromSelector(wire.TeamSelector(r.ReadC()))
		name := r.ReadS()
		return reg.RenameTeam(userID, teamID, name)

	case wire.OpStartGame:
		return reg.StartGame(userID)

	case wire.OpCallGrandTichu:
		call := r.ReadC() != 0
		return reg.CallGrandTichu(userID, call)

	case wire.OpCallSmallTichu:
		return reg.CallSmallTichu(userID)

	case wire.OpSubmitTrade:
		return reg.SubmitTrade(userID, readTradeCards(r))

	case wire.OpPlayCards:
		cards := r.ReadCards()
		wishRank := int(r.ReadD())
		dragonTo := r.ReadS()
		if err := reg.PlayCards(userID, cards, wishRank); err != nil {
			return err
		}
		if dragonTo != "" {
			return reg.GiveDragon(userID, dragonTo)
		}
		return nil

	case wire.OpPass:
		return reg.Pass(userID)

	default:
		return fmt.Errorf("unknown opcode %d", r.Opcode())
	}
}

func readTradeCards(r *wire.Reader) []domain.TradeCard {
	n := int(r.ReadC())
	trades := make([]domain.TradeCard, n)
	for i := range trades {
		trades[i] = domain.TradeCard{
			ToUserID: r.ReadS(),
			Card:     r.ReadCard(),
		}
	}
	return trades
}

func teamIDFromSelector(sel wire.TeamSelector) string {
	if sel == wire.TeamSelectorA {
		return "A"
	}
	return "B"
}
