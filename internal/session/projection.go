package session

import "github.com/larrybui/tichu-server/internal/domain"

// PlayerView is the public-facing projection of a User: every recipient
// sees these fields for every participant, but Hand is only populated
// for the recipient's own entry.
type PlayerView struct {
	UserID             string
	DisplayName        string
	Role               domain.Role
	Connected          bool
	HandSize           int
	Hand               []domain.Card // nil unless this is the recipient's own entry
	TricksCount        int
	GrandTichu         domain.CallStatus
	SmallTichu         domain.CallStatus
	HasPlayedFirstCard bool
	Finished           bool
}

// TeamView is the public projection of a Team.
type TeamView struct {
	ID      string
	Name    string
	Score   int
	UserIDs []string
}

// PlayStateView is the public projection of the active trick.
type PlayStateView struct {
	TurnUserID     string
	Table          []*domain.Combo
	WishedRank     int
	AwaitingDragon bool
	FinishedOrder  []string
}

// ScoreboardView is the public projection of a completed round.
type ScoreboardView struct {
	RoundScores map[string]int
	MatchEnded  bool
	WinningTeam string
}

// GameStateView is the complete state snapshot sent to one recipient.
// Nothing in it aliases server-owned memory: every slice and map is
// copied so a recipient can never observe a later mutation.
type GameStateView struct {
	GameID  string
	Code    string
	OwnerID string
	Stage   domain.StageKind
	Round   int
	Players []PlayerView
	Teams   [2]TeamView
	Play    *PlayStateView
	Score   *ScoreboardView
}

// ProjectState builds the view of g as seen by recipientID. connected
// reports whether each participant currently has a live connection.
func ProjectState(g *domain.Game, recipientID string, connected map[string]bool) *GameStateView {
	view := &GameStateView{
		GameID:  g.ID,
		Code:    g.Code,
		OwnerID: g.OwnerID,
		Stage:   g.Stage,
		Round:   g.Round,
	}

	for i, t := range g.Teams {
		if t == nil {
			continue
		}
		view.Teams[i] = TeamView{
			ID:      t.ID,
			Name:    t.Name,
			Score:   t.Score,
			UserIDs: append([]string{}, t.UserIDs...),
		}
	}

	for _, u := range g.Participants {
		pv := PlayerView{
			UserID:             u.ID,
			DisplayName:        u.DisplayName,
			Role:               u.Role,
			Connected:          connected[u.ID],
			HandSize:           len(u.Hand),
			TricksCount:        len(u.Tricks),
			HasPlayedFirstCard: u.HasPlayedFirstCard,
			Finished:           isFinished(g, u.ID),
		}
		if g.GrandTichuCalls != nil {
			pv.GrandTichu = g.GrandTichuCalls[u.ID]
		}
		if g.SmallTichuCalls != nil {
			pv.SmallTichu = g.SmallTichuCalls[u.ID]
		}
		if u.ID == recipientID {
			pv.Hand = append([]domain.Card{}, u.Hand...)
		}
		view.Players = append(view.Players, pv)
	}

	if g.Play != nil {
		table := make([]*domain.Combo, 0, len(g.Play.Table))
		for _, c := range g.Play.Table {
			cc := *c
			cc.Cards = append([]domain.Card{}, c.Cards...)
			table = append(table, &cc)
		}
		view.Play = &PlayStateView{
			TurnUserID:     g.Play.TurnUserID,
			Table:          table,
			WishedRank:     g.Play.WishedRank,
			AwaitingDragon: g.Play.AwaitingDragon,
			FinishedOrder:  append([]string{}, g.Play.FinishedOrder...),
		}
	}

	if g.Score != nil {
		view.Score = &ScoreboardView{
			RoundScores: copyIntMap(g.Score.RoundScores),
			MatchEnded:  g.Score.MatchEnded,
			WinningTeam: g.Score.WinningTeam,
		}
	}

	return view
}

func isFinished(g *domain.Game, userID string) bool {
	if g.Play == nil {
		return false
	}
	for _, id := range g.Play.FinishedOrder {
		if id == userID {
			return true
		}
	}
	return false
}

func copyIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
