// Package session hosts the in-memory registry that multiplexes many
// concurrent connections over a handful of live games. It owns no
// transport: the net package decodes frames into the calls below and
// encodes the returned events back onto the wire.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/larrybui/tichu-server/internal/domain"
)

// Outbound is one fully-resolved message ready to hand to a connection's
// writer goroutine: an event notification optionally paired with a
// fresh state projection for that specific recipient.
type Outbound struct {
	Event Event
	State *GameStateView
}

type outboundMsg struct {
	UserID string
	Event  Event
	State  *GameStateView
}

type connEntry struct {
	gameID    string
	connected bool
	out       chan<- Outbound
}

// Registry is the session layer's single piece of shared state. Its
// three maps are guarded by independent RWMutexes, always acquired in
// the order connections -> games -> game_codes. A write-holder of
// gamesMu owns exclusive access to every Game for the duration of one
// state-machine call; outbound sends happen only after every lock has
// been released.
type Registry struct {
	logger *zap.Logger

	connMu sync.RWMutex
	conns  map[string]*connEntry

	gamesMu sync.RWMutex
	games   map[string]*domain.Game

	codesMu sync.RWMutex
	codes   map[string]string // game code -> game id
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger: logger,
		conns:  make(map[string]*connEntry),
		games:  make(map[string]*domain.Game),
		codes:  make(map[string]string),
	}
}

// connectedSnapshotLocked reads the connected flag for every known
// user. Callers must hold at least connMu.RLock.
func (r *Registry) connectedSnapshotLocked() map[string]bool {
	out := make(map[string]bool, len(r.conns))
	for id, c := range r.conns {
		out[id] = c.connected
	}
	return out
}

func (r *Registry) buildBroadcast(g *domain.Game, event Event, connected map[string]bool) []outboundMsg {
	recipients := event.Recipients
	if len(recipients) == 0 {
		recipients = make([]string, 0, len(g.Participants))
		for _, u := range g.Participants {
			recipients = append(recipients, u.ID)
		}
	}
	msgs := make([]outboundMsg, 0, len(recipients))
	for _, uid := range recipients {
		msgs = append(msgs, outboundMsg{
			UserID: uid,
			Event:  event,
			State:  ProjectState(g, uid, connected),
		})
	}
	return msgs
}

// deliver hands each message to its recipient's outbound queue. Every
// registry write to a user's queue goes through deliver (the net layer's
// read loop also enqueues its own error replies on the same queue); a
// full queue means a stalled client, so the message is dropped rather
// than blocking every other game's dispatch.
func (r *Registry) deliver(msgs []outboundMsg) {
	for _, m := range msgs {
		r.connMu.RLock()
		conn, ok := r.conns[m.UserID]
		r.connMu.RUnlock()
		if !ok || conn.out == nil {
			continue
		}
		select {
		case conn.out <- Outbound{Event: m.Event, State: m.State}:
		default:
			r.logger.Warn("dropping outbound message, queue full",
				zap.String("user_id", m.UserID),
				zap.String("event", string(m.Event.Kind)),
			)
		}
	}
}

// op runs mutate against the game userID currently belongs to, holding
// connMu and gamesMu for its duration, then returns the broadcast
// derived from the event mutate reports. Locks are released before op
// returns; callers must still call deliver themselves afterward.
func (r *Registry) op(userID string, mutate func(g *domain.Game) (Event, error)) ([]outboundMsg, error) {
	r.connMu.RLock()
	defer r.connMu.RUnlock()
	conn, ok := r.conns[userID]
	if !ok || conn.gameID == "" {
		return nil, ErrNotInGame
	}

	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()
	g, ok := r.games[conn.gameID]
	if !ok {
		return nil, ErrNotInGame
	}

	event, err := mutate(g)
	if err != nil {
		return nil, err
	}
	return r.buildBroadcast(g, event, r.connectedSnapshotLocked()), nil
}

// Connect registers a connection's outbound queue and returns the user
// id that connection is now associated with, assigning a fresh one if
// userID is empty or not recognized.
func (r *Registry) Connect(userID string, out chan<- Outbound) string {
	r.connMu.Lock()
	conn, known := r.conns[userID]
	if userID == "" || !known {
		assigned := uuid.NewString()
		r.conns[assigned] = &connEntry{connected: true, out: out}
		r.connMu.Unlock()
		r.deliver([]outboundMsg{{UserID: assigned, Event: Event{Kind: EventUserIDAssigned, UserID: assigned}}})
		return assigned
	}
	conn.connected = true
	conn.out = out
	gameID := conn.gameID
	r.connMu.Unlock()

	if gameID == "" {
		r.deliver([]outboundMsg{{UserID: userID, Event: Event{Kind: EventGameState}}})
		return userID
	}

	r.connMu.RLock()
	r.gamesMu.Lock()
	var msgs []outboundMsg
	if g, ok := r.games[gameID]; ok {
		msgs = r.buildBroadcast(g, Event{Kind: EventUserReconnected, UserID: userID}, r.connectedSnapshotLocked())
	}
	r.gamesMu.Unlock()
	r.connMu.RUnlock()

	r.deliver(msgs)
	return userID
}

// Disconnect tears down a connection. Behavior depends on where the
// game stands: a Lobby/Teams departure removes the seat outright, a
// mid-round drop just flips the connected flag so the hand survives a
// reconnect, and the last connected member leaving deletes the game.
func (r *Registry) Disconnect(userID string) {
	r.connMu.Lock()
	conn, ok := r.conns[userID]
	if !ok {
		r.connMu.Unlock()
		return
	}
	conn.connected = false
	gameID := conn.gameID
	if gameID == "" {
		delete(r.conns, userID)
		r.connMu.Unlock()
		return
	}

	r.gamesMu.Lock()
	g, ok := r.games[gameID]
	if !ok {
		conn.gameID = ""
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return
	}

	anyoneElseConnected := false
	for _, u := range g.Participants {
		if u.ID == userID {
			continue
		}
		if c, ok := r.conns[u.ID]; ok && c.connected {
			anyoneElseConnected = true
			break
		}
	}

	var msgs []outboundMsg
	switch {
	case !anyoneElseConnected:
		r.codesMu.Lock()
		delete(r.codes, g.Code)
		r.codesMu.Unlock()
		delete(r.games, gameID)
		for _, u := range g.Participants {
			if c, ok := r.conns[u.ID]; ok {
				c.gameID = ""
				c.connected = false
			}
		}
	case g.Stage == domain.StageLobby || g.Stage == domain.StageTeams:
		wasOwner := g.OwnerID == userID
		_ = g.Leave(userID)
		delete(r.conns, userID)
		connected := r.connectedSnapshotLocked()
		msgs = r.buildBroadcast(g, Event{Kind: EventUserLeft, UserID: userID}, connected)
		if wasOwner && g.OwnerID != "" {
			msgs = append(msgs, r.buildBroadcast(g, Event{Kind: EventOwnerReassigned, UserID: g.OwnerID}, connected)...)
		}
	default:
		msgs = r.buildBroadcast(g, Event{Kind: EventUserDisconnected, UserID: userID}, r.connectedSnapshotLocked())
	}

	r.gamesMu.Unlock()
	r.connMu.Unlock()
	r.deliver(msgs)
}

// CreateGame opens a fresh lobby owned by userID and allocates it a
// game code.
func (r *Registry) CreateGame(userID, displayName string) (gameID, code string, err error) {
	r.connMu.Lock()
	conn, ok := r.conns[userID]
	if !ok {
		r.connMu.Unlock()
		return "", "", ErrNotInGame
	}
	if conn.gameID != "" {
		r.connMu.Unlock()
		return "", "", ErrAlreadyInGame
	}

	r.gamesMu.Lock()
	r.codesMu.Lock()
	genCode, genErr := generateGameCode(r.codes)
	if genErr != nil {
		r.codesMu.Unlock()
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return "", "", genErr
	}

	id := uuid.NewString()
	g := domain.NewGame(id, genCode, "")
	if err := g.Join(userID, displayName); err != nil {
		r.codesMu.Unlock()
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return "", "", err
	}
	r.games[id] = g
	r.codes[genCode] = id
	conn.gameID = id

	msgs := r.buildBroadcast(g, Event{Kind: EventUserJoined, UserID: userID}, r.connectedSnapshotLocked())
	r.codesMu.Unlock()
	r.gamesMu.Unlock()
	r.connMu.Unlock()

	r.deliver(msgs)
	return id, genCode, nil
}

// JoinGame seats userID into the lobby identified by code. Codes are
// case-normalized to uppercase on input.
func (r *Registry) JoinGame(userID, displayName, code string) error {
	code = strings.ToUpper(code)

	r.connMu.Lock()
	conn, ok := r.conns[userID]
	if !ok {
		r.connMu.Unlock()
		return ErrNotInGame
	}
	if conn.gameID != "" {
		r.connMu.Unlock()
		return ErrAlreadyInGame
	}

	r.gamesMu.Lock()
	r.codesMu.RLock()
	gameID, found := r.codes[code]
	r.codesMu.RUnlock()
	if !found {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return ErrUnknownGameCode
	}
	g, ok := r.games[gameID]
	if !ok {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return ErrUnknownGameCode
	}
	if err := g.Join(userID, displayName); err != nil {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return err
	}
	conn.gameID = gameID

	msgs := r.buildBroadcast(g, Event{Kind: EventUserJoined, UserID: userID}, r.connectedSnapshotLocked())
	r.gamesMu.Unlock()
	r.connMu.Unlock()

	r.deliver(msgs)
	return nil
}

// LeaveGame removes userID from their game outright. Only valid before
// the round has started; mid-round departures go through Disconnect
// instead so the abandoned hand still counts toward scoring.
func (r *Registry) LeaveGame(userID string) error {
	r.connMu.Lock()
	conn, ok := r.conns[userID]
	if !ok || conn.gameID == "" {
		r.connMu.Unlock()
		return ErrNotInGame
	}

	r.gamesMu.Lock()
	g, ok := r.games[conn.gameID]
	if !ok {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return ErrNotInGame
	}
	if g.Stage != domain.StageLobby && g.Stage != domain.StageTeams {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return domain.ErrWrongStage
	}

	wasOwner := g.OwnerID == userID
	if err := g.Leave(userID); err != nil {
		r.gamesMu.Unlock()
		r.connMu.Unlock()
		return err
	}
	gameID := conn.gameID
	conn.gameID = ""

	var msgs []outboundMsg
	if len(g.Participants) == 0 {
		r.codesMu.Lock()
		delete(r.codes, g.Code)
		r.codesMu.Unlock()
		delete(r.games, gameID)
	} else {
		connected := r.connectedSnapshotLocked()
		msgs = r.buildBroadcast(g, Event{Kind: EventUserLeft, UserID: userID}, connected)
		if wasOwner && g.OwnerID != "" {
			msgs = append(msgs, r.buildBroadcast(g, Event{Kind: EventOwnerReassigned, UserID: g.OwnerID}, connected)...)
		}
	}

	r.gamesMu.Unlock()
	r.connMu.Unlock()

	r.deliver(msgs)
	return nil
}

// The remaining operations all follow the same shape: validate the
// caller is seated in a game, apply one domain.Game transition, and
// broadcast the resulting event with a fresh per-recipient projection.

func (r *Registry) MoveToTeam(userID, teamID string) error {
	var kind EventKind
	if teamID == "A" {
		kind = EventUserMovedToTeamA
	} else {
		kind = EventUserMovedToTeamB
	}
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.MoveToTeam(userID, teamID); err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, UserID: userID}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) RenameTeam(userID, teamID, name string) error {
	var kind EventKind
	if teamID == "A" {
		kind = EventTeamARenamed
	} else {
		kind = EventTeamBRenamed
	}
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.RenameTeam(userID, teamID, name); err != nil {
			return Event{}, err
		}
		return Event{Kind: kind, UserID: userID, Text: name}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) StartGame(userID string) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.StartGame(userID); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventFirstCardsDealt}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) CallGrandTichu(userID string, call bool) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		before := g.Stage
		if err := g.CallGrandTichu(userID, call); err != nil {
			return Event{}, err
		}
		kind := EventGrandTichuCalled
		if before != g.Stage {
			kind = EventLastCardsDealt
		}
		return Event{Kind: kind, UserID: userID, Call: g.GrandTichuCalls[userID]}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) CallSmallTichu(userID string) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.CallSmallTichu(userID); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventSmallTichuCalled, UserID: userID, Call: domain.Called}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) SubmitTrade(userID string, trades []domain.TradeCard) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.SubmitTrade(userID, trades); err != nil {
			return Event{}, err
		}
		kind := EventTradeSubmitted
		if g.Stage == domain.StagePlay {
			kind = EventGameStageChanged
		}
		return Event{Kind: kind, UserID: userID}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) PlayCards(userID string, cards []domain.Card, wishRank int) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		stageBefore := g.Stage
		if err := g.PlayCards(userID, cards, wishRank); err != nil {
			return Event{}, err
		}
		if g.Stage == domain.StageScoreboard && stageBefore != domain.StageScoreboard {
			return roundEndEvent(g), nil
		}
		return Event{Kind: EventCardsPlayed, UserID: userID}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) GiveDragon(userID, recipientID string) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		stageBefore := g.Stage
		if err := g.GiveDragon(userID, recipientID); err != nil {
			return Event{}, err
		}
		if g.Stage == domain.StageScoreboard && stageBefore != domain.StageScoreboard {
			return roundEndEvent(g), nil
		}
		return Event{Kind: EventPlayerReceivedDragon, UserID: recipientID}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) Pass(userID string) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		stageBefore := g.Stage
		if err := g.Pass(userID); err != nil {
			return Event{}, err
		}
		if g.Stage == domain.StageScoreboard && stageBefore != domain.StageScoreboard {
			return roundEndEvent(g), nil
		}
		return Event{Kind: EventUserPassed, UserID: userID}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func (r *Registry) NextRound(userID string) error {
	msgs, err := r.op(userID, func(g *domain.Game) (Event, error) {
		if err := g.NextRound(userID); err != nil {
			return Event{}, err
		}
		return Event{Kind: EventGameStageChanged}, nil
	})
	if err != nil {
		return err
	}
	r.deliver(msgs)
	return nil
}

func roundEndEvent(g *domain.Game) Event {
	if g.Score != nil && g.Score.MatchEnded {
		return Event{Kind: EventGameEndedFinal, Text: g.Score.WinningTeam}
	}
	return Event{Kind: EventGameEnded}
}
