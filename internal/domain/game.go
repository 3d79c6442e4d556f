package domain

// StageKind names the phases a Game moves through, in order, repeating
// GrandTichu..Scoreboard for each round until the match ends.
type StageKind int

const (
	StageLobby StageKind = iota
	StageTeams
	StageGrandTichu
	StageTrade
	StagePlay
	StageScoreboard
)

func (s StageKind) String() string {
	switch s {
	case StageLobby:
		return "Lobby"
	case StageTeams:
		return "Teams"
	case StageGrandTichu:
		return "GrandTichu"
	case StageTrade:
		return "Trade"
	case StagePlay:
		return "Play"
	case StageScoreboard:
		return "Scoreboard"
	default:
		return "Unknown"
	}
}

// grandTichuHandSize and fullHandSize are the two dealing batches: every
// participant first receives grandTichuHandSize cards to decide a Grand
// Tichu call on, then the remainder once all four have decided.
const (
	grandTichuHandSize = 9
	fullHandSize       = 14
)

// TradeCard is one of the three cards a player hands off at the start of
// a round, one to each of the other three participants.
type TradeCard struct {
	ToUserID string
	Card     Card
}

// TradeState tracks the simultaneous three-way card exchange that opens
// every round, before any cards are played.
type TradeState struct {
	Submitted map[string]bool
	Outgoing  map[string][]TradeCard
}

// PlayState tracks the single active trick: whose turn it is, what is on
// the table, who has passed since the last play, and any standing wish or
// pending Dragon handoff.
type PlayState struct {
	Seats           []string // four user IDs in turn order, fixed for the round
	TurnUserID      string
	Table           []*Combo // plays made on the current trick, most recent last
	Passes          map[string]bool
	WishedRank      int // 0 = no standing wish
	AwaitingDragon  bool
	FinishedOrder   []string // user IDs in the order their hands emptied this round
}

// ScoreboardState holds the score breakdown computed at round end.
type ScoreboardState struct {
	RoundScores map[string]int // team ID -> points earned this round
	MatchEnded  bool
	WinningTeam string
}

// Game is a single table's entire state: lobby membership, team
// assignments, and the current round's stage-specific state.
type Game struct {
	ID      string
	Code    string
	OwnerID string

	Participants []*User
	Teams        [2]*Team

	Stage StageKind
	Round int

	GrandTichuCalls map[string]CallStatus
	SmallTichuCalls map[string]CallStatus

	Trade *TradeState
	Play  *PlayState
	Score *ScoreboardState

	deck *Deck
}

// NewGame creates a freshly opened lobby owned by ownerID.
func NewGame(id, code, ownerID string) *Game {
	return &Game{
		ID:      id,
		Code:    code,
		OwnerID: ownerID,
		Teams:   [2]*Team{NewTeamA(), NewTeamB()},
		Stage:   StageLobby,
	}
}

func (g *Game) findUser(userID string) *User {
	for _, u := range g.Participants {
		if u.ID == userID {
			return u
		}
	}
	return nil
}

// Join adds a new participant to an open lobby.
func (g *Game) Join(userID, displayName string) error {
	if g.Stage != StageLobby && g.Stage != StageTeams {
		return ErrWrongStage
	}
	if len(g.Participants) >= 4 {
		return ErrGameFull
	}
	role := RoleParticipant
	if len(g.Participants) == 0 {
		role = RoleOwner
		g.OwnerID = userID
	}
	g.Participants = append(g.Participants, &User{ID: userID, DisplayName: displayName, Role: role})
	if g.Stage == StageLobby {
		g.Stage = StageTeams
	}
	return nil
}

// MoveToTeam assigns userID to the named team ("A" or "B"), displacing it
// from whichever team it previously belonged to. Teams cap at two members.
func (g *Game) MoveToTeam(userID, teamID string) error {
	if g.Stage != StageTeams {
		return ErrWrongStage
	}
	if g.findUser(userID) == nil {
		return ErrNotParticipant
	}
	target := g.teamByID(teamID)
	if target == nil {
		return ErrWrongStage
	}
	if len(target.UserIDs) >= 2 && !target.hasMember(userID) {
		return ErrTeamsNotFull
	}
	g.Teams[0].removeMember(userID)
	g.Teams[1].removeMember(userID)
	if !target.hasMember(userID) {
		target.UserIDs = append(target.UserIDs, userID)
	}
	return nil
}

// Leave removes a participant before the round has started, reassigning
// ownership to the first remaining participant by join order.
func (g *Game) Leave(userID string) error {
	if g.Stage != StageLobby && g.Stage != StageTeams {
		return ErrWrongStage
	}
	idx := -1
	for i, u := range g.Participants {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotParticipant
	}
	g.Participants = append(g.Participants[:idx], g.Participants[idx+1:]...)
	g.Teams[0].removeMember(userID)
	g.Teams[1].removeMember(userID)
	if g.OwnerID == userID {
		if len(g.Participants) > 0 {
			g.OwnerID = g.Participants[0].ID
			g.Participants[0].Role = RoleOwner
		} else {
			g.OwnerID = ""
		}
	}
	return nil
}

func (g *Game) teamByID(teamID string) *Team {
	for _, t := range g.Teams {
		if t.ID == teamID {
			return t
		}
	}
	return nil
}

// RenameTeam renames a team; the actor must belong to it.
func (g *Game) RenameTeam(userID, teamID, name string) error {
	team := g.teamByID(teamID)
	if team == nil || !team.hasMember(userID) {
		return ErrCannotRenameOtherTeam
	}
	team.Name = name
	return nil
}

// StartGame deals the first batch of cards and opens Grand Tichu calling.
// Only the owner may start, and requires both teams full.
func (g *Game) StartGame(actorID string) error {
	if actorID != g.OwnerID {
		return ErrNotOwner
	}
	if g.Stage != StageTeams {
		return ErrWrongStage
	}
	if len(g.Teams[0].UserIDs) != 2 || len(g.Teams[1].UserIDs) != 2 {
		return ErrTeamsNotFull
	}
	g.Round = 1
	g.dealRoundStart()
	return nil
}

func (g *Game) dealRoundStart() {
	g.deck = NewDeck()
	g.deck.Shuffle()
	g.GrandTichuCalls = make(map[string]CallStatus, 4)
	g.SmallTichuCalls = make(map[string]CallStatus, 4)
	for _, u := range g.Participants {
		u.Hand = g.deck.Draw(grandTichuHandSize)
		SortHand(u.Hand)
		u.Tricks = nil
		u.HasPlayedFirstCard = false
		g.GrandTichuCalls[u.ID] = Undecided
		g.SmallTichuCalls[u.ID] = Undecided
	}
	g.Stage = StageGrandTichu
}

// CallGrandTichu records a participant's Grand Tichu decision. Once all
// four have decided, the remaining cards are dealt and trading opens.
func (g *Game) CallGrandTichu(userID string, call bool) error {
	if g.Stage != StageGrandTichu {
		return ErrWrongStage
	}
	if g.findUser(userID) == nil {
		return ErrNotParticipant
	}
	if g.GrandTichuCalls[userID] != Undecided {
		return ErrAlreadyDecided
	}
	if call {
		g.GrandTichuCalls[userID] = Called
	} else {
		g.GrandTichuCalls[userID] = Declined
	}

	for _, u := range g.Participants {
		if g.GrandTichuCalls[u.ID] == Undecided {
			return nil
		}
	}
	g.dealRemainder()
	return nil
}

func (g *Game) dealRemainder() {
	for _, u := range g.Participants {
		u.Hand = append(u.Hand, g.deck.Draw(fullHandSize-grandTichuHandSize)...)
		SortHand(u.Hand)
	}
	g.Trade = &TradeState{
		Submitted: make(map[string]bool, 4),
		Outgoing:  make(map[string][]TradeCard, 4),
	}
	g.Stage = StageTrade
}

// CallSmallTichu records a Small Tichu call. Allowed any time before the
// caller has played their first card of the round, and only once a Grand
// Tichu call has already been declined (or was never offered, i.e. the
// player is past the GrandTichu stage).
func (g *Game) CallSmallTichu(userID string) error {
	if g.Stage != StageTrade && g.Stage != StagePlay {
		return ErrWrongStage
	}
	u := g.findUser(userID)
	if u == nil {
		return ErrNotParticipant
	}
	if u.HasPlayedFirstCard {
		return ErrSmallTichuUnavailable
	}
	if g.GrandTichuCalls[userID] == Called {
		return ErrAlreadyDecided
	}
	if g.SmallTichuCalls[userID] != Undecided {
		return ErrAlreadyDecided
	}
	g.SmallTichuCalls[userID] = Called
	return nil
}

// SubmitTrade records one player's three outgoing trade cards. Once all
// four participants have submitted, every trade resolves simultaneously
// and play begins with whoever holds the MahJong.
func (g *Game) SubmitTrade(userID string, trades []TradeCard) error {
	if g.Stage != StageTrade {
		return ErrWrongStage
	}
	u := g.findUser(userID)
	if u == nil {
		return ErrNotParticipant
	}
	if g.Trade.Submitted[userID] {
		return ErrTradeAlreadySubmitted
	}
	if len(trades) != 3 {
		return ErrTradeCardNotInHand
	}
	targets := make(map[string]bool, 3)
	cards := make([]Card, 0, 3)
	for _, t := range trades {
		if t.ToUserID == userID {
			return ErrTradeToSelf
		}
		if g.findUser(t.ToUserID) == nil {
			return ErrNotParticipant
		}
		if targets[t.ToUserID] {
			return ErrTradeToSelf
		}
		targets[t.ToUserID] = true
		cards = append(cards, t.Card)
	}
	if !HasCards(u.Hand, cards) {
		return ErrTradeCardNotInHand
	}

	g.Trade.Outgoing[userID] = append([]TradeCard{}, trades...)
	g.Trade.Submitted[userID] = true

	for _, p := range g.Participants {
		if !g.Trade.Submitted[p.ID] {
			return nil
		}
	}
	g.resolveTrades()
	return nil
}

func (g *Game) resolveTrades() {
	incoming := make(map[string][]Card, 4)
	for fromID, trades := range g.Trade.Outgoing {
		from := g.findUser(fromID)
		var taken []Card
		for _, t := range trades {
			taken = append(taken, t.Card)
			incoming[t.ToUserID] = append(incoming[t.ToUserID], t.Card)
		}
		from.Hand = RemoveCards(from.Hand, taken)
	}
	for _, u := range g.Participants {
		u.Hand = append(u.Hand, incoming[u.ID]...)
		SortHand(u.Hand)
	}

	g.Play = &PlayState{
		Seats:  g.buildSeats(),
		Passes: make(map[string]bool, 4),
	}
	for _, u := range g.Participants {
		if containsMahJong(u.Hand) {
			g.Play.TurnUserID = u.ID
		}
	}
	g.Stage = StagePlay
}

func containsMahJong(hand []Card) bool {
	for _, c := range hand {
		if c.Suit == MahJong {
			return true
		}
	}
	return false
}

// buildSeats fixes the round's turn order, alternating the two teams'
// two members so partners never sit adjacent.
func (g *Game) buildSeats() []string {
	a, b := g.Teams[0].UserIDs, g.Teams[1].UserIDs
	return []string{a[0], b[0], a[1], b[1]}
}

func (g *Game) seatIndex(userID string) int {
	for i, id := range g.Play.Seats {
		if id == userID {
			return i
		}
	}
	return -1
}

// nextTurn advances from userID to the next in-play (not finished) seat,
// in counter-clockwise order.
func (g *Game) nextTurn(userID string) string {
	i := g.seatIndex(userID)
	for n := 0; n < 4; n++ {
		i = (i - 1 + 4) % 4
		candidate := g.Play.Seats[i]
		if !g.hasFinished(candidate) {
			return candidate
		}
	}
	return ""
}

func (g *Game) hasFinished(userID string) bool {
	for _, id := range g.Play.FinishedOrder {
		if id == userID {
			return true
		}
	}
	return false
}

func (g *Game) topCombo() *Combo {
	if len(g.Play.Table) == 0 {
		return nil
	}
	return g.Play.Table[len(g.Play.Table)-1]
}

// PlayCards validates and applies a play. wishRank is only consulted when
// cards contains the MahJong (0 means no wish). A won Dragon trick does
// not resolve its recipient here; the winner must follow up with
// GiveDragon before play can continue.
func (g *Game) PlayCards(userID string, cards []Card, wishRank int) error {
	if g.Stage != StagePlay {
		return ErrWrongStage
	}
	u := g.findUser(userID)
	if u == nil {
		return ErrNotParticipant
	}
	if g.hasFinished(userID) {
		return ErrPlayerFinished
	}
	if g.Play.AwaitingDragon {
		return ErrWrongStage
	}
	if userID != g.Play.TurnUserID {
		return ErrNotYourTurn
	}
	if !HasCards(u.Hand, cards) {
		return ErrCardsNotInHand
	}

	prev := g.topCombo()
	combo := Classify(cards, prev)
	if combo == nil {
		return ErrInvalidCombination
	}
	if !Beats(prev, combo) {
		return ErrCannotBeat
	}
	if g.Play.WishedRank != 0 && !comboSatisfiesWish(combo, g.Play.WishedRank) {
		if CanSatisfyWish(prev, u.Hand, g.Play.WishedRank) {
			return ErrWishNotSatisfied
		}
	}

	containsMJ := false
	for _, c := range cards {
		if c.Suit == MahJong {
			containsMJ = true
		}
	}
	if containsMJ {
		if wishRank != 0 && (wishRank < MinRank || wishRank > MaxRank) {
			return ErrWishRankInvalid
		}
		g.Play.WishedRank = wishRank
	} else if comboSatisfiesWish(combo, g.Play.WishedRank) {
		g.Play.WishedRank = 0
	}

	combo.UserID = userID
	u.Hand = RemoveCards(u.Hand, cards)
	u.HasPlayedFirstCard = true
	g.Play.Table = append(g.Play.Table, combo)
	for id := range g.Play.Passes {
		delete(g.Play.Passes, id)
	}

	if len(u.Hand) == 0 {
		g.Play.FinishedOrder = append(g.Play.FinishedOrder, userID)
		if len(g.Play.FinishedOrder) == 2 && g.teamOf(g.Play.FinishedOrder[0]) == g.teamOf(g.Play.FinishedOrder[1]) {
			return g.endRound()
		}
		if len(g.Play.FinishedOrder) == 3 {
			return g.endRound()
		}
	}

	if combo.Type == Single && cards[0].Suit == Dog {
		return g.resolveDogLead(userID)
	}

	if combo.HasDragon {
		g.Play.AwaitingDragon = true
		return nil
	}

	g.Play.TurnUserID = g.nextTurn(userID)
	if g.Play.TurnUserID == "" {
		return g.endRound()
	}
	return nil
}

func comboSatisfiesWish(c *Combo, wishRank int) bool {
	if wishRank == 0 {
		return true
	}
	for _, card := range c.Cards {
		if card.Rank == wishRank && card.Suit.IsStandard() {
			return true
		}
	}
	return false
}

// resolveDogLead immediately clears the table to the leader's partner,
// with no trick points changing hands (Dog is worth zero).
func (g *Game) resolveDogLead(leaderID string) error {
	g.Play.Table = nil
	partner := g.partnerOf(leaderID)
	if partner == "" || g.hasFinished(partner) {
		g.Play.TurnUserID = g.nextTurn(leaderID)
	} else {
		g.Play.TurnUserID = partner
	}
	if g.Play.TurnUserID == "" {
		return g.endRound()
	}
	return nil
}

func (g *Game) partnerOf(userID string) string {
	for _, t := range g.Teams {
		if t.hasMember(userID) {
			for _, id := range t.UserIDs {
				if id != userID {
					return id
				}
			}
		}
	}
	return ""
}

// GiveDragon resolves a pending Dragon trick: the winner assigns the
// captured trick (including the Dragon's point value) to an opponent.
func (g *Game) GiveDragon(userID, recipientID string) error {
	if g.Stage != StagePlay || !g.Play.AwaitingDragon {
		return ErrWrongStage
	}
	top := g.topCombo()
	if top == nil || top.UserID != userID {
		return ErrNotYourTurn
	}
	recipient := g.findUser(recipientID)
	if recipient == nil {
		return ErrDragonRecipientInvalid
	}
	if g.partnerOf(userID) == recipientID || recipientID == userID {
		return ErrDragonRecipientInvalid
	}
	recipient.Tricks = append(recipient.Tricks, g.Play.Table)
	g.Play.Table = nil
	g.Play.AwaitingDragon = false
	for id := range g.Play.Passes {
		delete(g.Play.Passes, id)
	}
	g.Play.TurnUserID = g.nextTurn(userID)
	if g.Play.TurnUserID == "" {
		return g.endRound()
	}
	return nil
}

// Pass skips the actor's turn. A trick closes once every other in-play
// participant has passed since the last play, awarding the whole trick to
// whoever played the winning combination.
func (g *Game) Pass(userID string) error {
	if g.Stage != StagePlay {
		return ErrWrongStage
	}
	if g.Play.AwaitingDragon {
		return ErrWrongStage
	}
	if userID != g.Play.TurnUserID {
		return ErrNotYourTurn
	}
	if len(g.Play.Table) == 0 {
		return ErrNoTableToPassOn
	}
	u := g.findUser(userID)
	if u == nil {
		return ErrNotParticipant
	}
	top := g.topCombo()
	if g.Play.WishedRank != 0 && CanSatisfyWish(top, u.Hand, g.Play.WishedRank) {
		return ErrWishNotSatisfied
	}
	g.Play.Passes[userID] = true

	needed := g.inPlayExcept(top.UserID)
	allPassed := true
	for _, id := range needed {
		if !g.Play.Passes[id] {
			allPassed = false
			break
		}
	}
	if allPassed {
		if winner := g.findUser(top.UserID); winner != nil {
			winner.Tricks = append(winner.Tricks, g.Play.Table)
		}
		g.Play.Table = nil
		for id := range g.Play.Passes {
			delete(g.Play.Passes, id)
		}
		g.Play.TurnUserID = g.nextTurn(top.UserID)
	} else {
		g.Play.TurnUserID = g.nextTurn(userID)
	}

	if g.Play.TurnUserID == "" {
		return g.endRound()
	}
	return nil
}

func (g *Game) inPlayExcept(userID string) []string {
	var out []string
	for _, id := range g.Play.Seats {
		if id != userID && !g.hasFinished(id) {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) teamOf(userID string) *Team {
	for _, t := range g.Teams {
		if t.hasMember(userID) {
			return t
		}
	}
	return nil
}

// endRound fires on a 1-2 finish or once at most one in-play seat remains. It resolves the
// 1-2 finish bonus or, failing that, hand and trick point accounting
// (the last player's remaining hand goes to the opposing team, while the
// tricks the last player captured during the round go to the first-out
// team), applies Tichu call bonuses and penalties, and moves to Scoreboard.
func (g *Game) endRound() error {
	order := g.Play.FinishedOrder
	scores := map[string]int{g.Teams[0].ID: 0, g.Teams[1].ID: 0}

	if len(order) >= 2 && g.teamOf(order[0]) == g.teamOf(order[1]) {
		winningTeam := g.teamOf(order[0])
		losingTeam := g.otherTeam(winningTeam)
		scores[winningTeam.ID] += OneTwoBonus
		scores[losingTeam.ID] += 0
	} else {
		for _, u := range g.Participants {
			team := g.teamOf(u.ID)
			if team == nil {
				continue
			}
			scores[team.ID] += u.TrickPoints()
		}
		if len(order) >= 1 {
			lastPlaceID := g.lastRemainingPlayer(order)
			if lastPlaceID != "" {
				lastUser := g.findUser(lastPlaceID)
				firstOutTeam := g.teamOf(order[0])
				lastTeam := g.teamOf(lastPlaceID)
				if firstOutTeam != nil && lastTeam != nil {
					handPoints := CardPoints(lastUser.Hand)
					opposingTeam := g.otherTeam(lastTeam)
					scores[lastTeam.ID] -= handPoints
					scores[opposingTeam.ID] += handPoints

					trickPoints := lastUser.TrickPoints()
					scores[lastTeam.ID] -= trickPoints
					scores[firstOutTeam.ID] += trickPoints
				}
			}
		}
	}

	g.applyTichuCalls(scores)

	for _, t := range g.Teams {
		t.Score += scores[t.ID]
	}

	g.Score = &ScoreboardState{RoundScores: scores}
	g.Stage = StageScoreboard

	if g.Teams[0].Score != g.Teams[1].Score {
		if g.Teams[0].Score >= MatchWinThreshold || g.Teams[1].Score >= MatchWinThreshold {
			g.Score.MatchEnded = true
			if g.Teams[0].Score > g.Teams[1].Score {
				g.Score.WinningTeam = g.Teams[0].ID
			} else {
				g.Score.WinningTeam = g.Teams[1].ID
			}
		}
	}
	return nil
}

func (g *Game) otherTeam(t *Team) *Team {
	if t == g.Teams[0] {
		return g.Teams[1]
	}
	return g.Teams[0]
}

// lastRemainingPlayer returns the one seat that never went out, if any.
func (g *Game) lastRemainingPlayer(order []string) string {
	for _, id := range g.Play.Seats {
		if !g.hasFinished(id) {
			return id
		}
	}
	_ = order
	return ""
}

func (g *Game) applyTichuCalls(scores map[string]int) {
	order := g.Play.FinishedOrder
	firstOutID := ""
	if len(order) > 0 {
		firstOutID = order[0]
	}
	for _, u := range g.Participants {
		team := g.teamOf(u.ID)
		if team == nil {
			continue
		}
		achieved := u.ID == firstOutID
		if g.GrandTichuCalls[u.ID] == Called {
			if achieved {
				scores[team.ID] += GrandTichuBonus
				g.GrandTichuCalls[u.ID] = Achieved
			} else {
				scores[team.ID] += GrandTichuPenalty
				g.GrandTichuCalls[u.ID] = Failed
			}
		} else if g.SmallTichuCalls[u.ID] == Called {
			if achieved {
				scores[team.ID] += SmallTichuBonus
				g.SmallTichuCalls[u.ID] = Achieved
			} else {
				scores[team.ID] += SmallTichuPenalty
				g.SmallTichuCalls[u.ID] = Failed
			}
		}
	}
}

// NextRound exits the Scoreboard into a fresh GrandTichu deal, unless the
// match has already ended.
func (g *Game) NextRound(actorID string) error {
	if actorID != g.OwnerID {
		return ErrNotOwner
	}
	if g.Stage != StageScoreboard {
		return ErrWrongStage
	}
	if g.Score != nil && g.Score.MatchEnded {
		return ErrMatchAlreadyEnded
	}
	g.Round++
	g.dealRoundStart()
	return nil
}
