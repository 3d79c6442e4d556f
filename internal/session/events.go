package session

import "github.com/larrybui/tichu-server/internal/domain"

// EventKind identifies a server-to-client notification emitted by the
// registry in response to a state transition. Each maps to a wire tag in
// internal/wire; the net layer owns that encoding, not this package.
type EventKind string

const (
	EventUserIDAssigned       EventKind = "user_id_assigned"
	EventGameState            EventKind = "game_state"
	EventGameStageChanged     EventKind = "game_stage_changed"
	EventUserJoined           EventKind = "user_joined"
	EventUserLeft             EventKind = "user_left"
	EventUserDisconnected     EventKind = "user_disconnected"
	EventUserReconnected      EventKind = "user_reconnected"
	EventOwnerReassigned      EventKind = "owner_reassigned"
	EventUserMovedToTeamA     EventKind = "user_moved_to_team_a"
	EventUserMovedToTeamB     EventKind = "user_moved_to_team_b"
	EventTeamARenamed         EventKind = "team_a_renamed"
	EventTeamBRenamed         EventKind = "team_b_renamed"
	EventGrandTichuCalled     EventKind = "grand_tichu_called"
	EventSmallTichuCalled     EventKind = "small_tichu_called"
	EventTradeSubmitted       EventKind = "trade_submitted"
	EventCardsPlayed          EventKind = "cards_played"
	EventUserPassed           EventKind = "user_passed"
	EventFirstCardsDealt      EventKind = "first_cards_dealt"
	EventLastCardsDealt       EventKind = "last_cards_dealt"
	EventPlayerReceivedDragon EventKind = "player_received_dragon"
	EventGameEnded            EventKind = "game_ended"
	EventGameEndedFinal       EventKind = "game_ended_final"
	EventUnexpectedMessage    EventKind = "unexpected_message_received"
)

// Event is one outbound notification, optionally paired with a fresh
// projected state for the same recipients. Recipients nil/empty means
// "every participant of the game", connected or not.
type Event struct {
	Kind       EventKind
	UserID     string // subject of the event, when applicable
	Text       string // diagnostic text, team name, etc.
	Call       domain.CallStatus
	Recipients []string
}
