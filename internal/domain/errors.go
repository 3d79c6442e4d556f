package domain

import "errors"

// Named preconditions. Any operation that fails with one of these leaves
// game state entirely unchanged (spec §4.3, §7): the caller is expected
// to treat these as no-ops and simply report the diagnostic upstream.
var (
	ErrGameFull            = errors.New("game already has four participants")
	ErrWrongStage          = errors.New("operation not valid in the current stage")
	ErrNotOwner            = errors.New("actor is not the game owner")
	ErrNotParticipant      = errors.New("actor is not a participant in this game")
	ErrTeamsNotFull        = errors.New("both teams must have exactly two members to start")
	ErrAlreadyDecided      = errors.New("grand tichu call already decided for this participant")
	ErrSmallTichuUnavailable = errors.New("small tichu can no longer be called")
	ErrNotAllDecided       = errors.New("not all participants have decided grand tichu")
	ErrTradeAlreadySubmitted = errors.New("trade already submitted")
	ErrTradeToSelf         = errors.New("cannot trade a card to yourself")
	ErrTradeCardNotInHand  = errors.New("traded card is not in the player's hand")
	ErrNotYourTurn         = errors.New("it is not the actor's turn")
	ErrInvalidCombination  = errors.New("cards do not form a valid combination")
	ErrCannotBeat          = errors.New("combination cannot beat the previous play")
	ErrNoTableToPassOn     = errors.New("cannot pass on an empty table")
	ErrWishNotSatisfied    = errors.New("a satisfiable wish must be honored")
	ErrWishRankInvalid     = errors.New("wished rank must be a standard rank")
	ErrDragonRecipientInvalid = errors.New("dragon must be given to an opponent")
	ErrCardsNotInHand      = errors.New("played cards are not in the actor's hand")
	ErrPlayerFinished      = errors.New("actor has already emptied their hand")
	ErrCannotRenameOtherTeam = errors.New("cannot rename a team the actor does not belong to")
	ErrMatchAlreadyEnded   = errors.New("match has already ended")
)
