// Package engine is the on-chain core: the deterministic state machine,
// the mental-poker shuffle/draw cycle, the betting engine, showdown, and
// pot/slash distribution described across spec.md 4.1-4.10.
//
// Every mutating method on Game corresponds to one of the 19 wire
// operations in spec.md 6 and is an all-or-nothing transaction: it either
// returns nil and commits every state change, or returns a *GameError and
// leaves Game entirely unchanged (spec.md 7's "no partial state change on
// error"). Callers (the hosting runtime) are responsible for serializing
// calls against the same game, per spec.md 5.
package engine

import (
	"github.com/RedPaladin7/onchainholdem/internal/curve"
	"github.com/RedPaladin7/onchainholdem/internal/vault"
)

// Identity addresses a participant (player or authority). Reusing
// vault.Identity keeps player addressing and vault addressing the same
// 20-byte type throughout, grounded on the teacher's blockchain.Wallet
// using common.Address end to end.
type Identity = vault.Identity

// GamePhase is the top-level lifecycle state, spec.md 4.3.
type GamePhase uint8

const (
	PhaseWaitingForPlayers GamePhase = iota
	PhaseShuffling
	PhaseDrawing
	PhaseBetting
	PhaseShowdown
	PhaseFinished
)

func (p GamePhase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "WaitingForPlayers"
	case PhaseShuffling:
		return "Shuffling"
	case PhaseDrawing:
		return "Drawing"
	case PhaseBetting:
		return "Betting"
	case PhaseShowdown:
		return "Showdown"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// ShufflingState is the Shuffling sub-state, spec.md 4.3/4.4.
type ShufflingState uint8

const (
	ShuffleCommitting ShufflingState = iota
	ShuffleGenerating
	ShuffleMappingDeck
	ShuffleShuffling
	ShuffleLocking
	ShuffleDone
)

// DrawSubState is the per-card draw cycle sub-state, spec.md 4.5.
type DrawSubState uint8

const (
	DrawIdle DrawSubState = iota
	DrawPicking
	DrawRevealing
)

// TexasState is the overall hand-lifecycle sub-state, spec.md 4.3.
type TexasState uint8

const (
	TexasSetup TexasState = iota
	TexasDrawing
	TexasBetting
	TexasCommunityAwaiting
	TexasRevealing
	TexasSubmitBest
	TexasClaimPot
	TexasStartNext
)

// BettingRoundState is the betting-street sub-state, spec.md 4.3.
type BettingRoundState uint8

const (
	BetBlinds BettingRoundState = iota
	BetPreFlop
	BetPostFlop
	BetPostTurn
	BetShowdown
)

// CommunityState tracks how much of the board has been dealt, spec.md 3.
type CommunityState uint8

const (
	CommunityNone CommunityState = iota
	CommunityFlop
	CommunityTurn
	CommunityRiver
	CommunityDone
)

// DeckSize is the number of cards in the deck.
const DeckSize = 52

// GameConfig is immutable after InitializeGame except for the fields the
// spec explicitly calls out (currentPlayers, dealerIndex,
// isAcceptingPlayers, gameNumber), spec.md 3.
type GameConfig struct {
	GameID             [32]byte
	Authority          Identity
	MaxPlayers         uint8
	CurrentPlayers     uint8
	SmallBlind         uint64
	MinBuyIn           uint64
	DealerIndex        uint8
	IsAcceptingPlayers bool
	TimeoutSeconds     uint32
	SlashPercentage    uint8
	GameNumber         uint32
}

// GameState is the authoritative state vector, spec.md 3.
type GameState struct {
	Phase        GamePhase
	ShuffleSub   ShufflingState
	DrawSub      DrawSubState
	TexasSub     TexasState
	BettingSub   BettingRoundState
	CommunitySub CommunityState

	CurrentTurn       uint8
	ActivePlayerCount uint8
	NumFoldedPlayers  uint8

	CardsDrawn      uint8
	CardsLeftInDeck uint8

	Pot               uint64
	CurrentCallAmount uint64
	LastToCall        Identity

	IsEverybodyAllIn bool
	PotClaimed       bool

	CardToReveal    uint8
	IsDeckSubmitted bool

	LastActionTimestamp int64

	NumSubmittedHands uint8
	PlayerCardsOpened uint8

	// PreviousCallAmount is bookkeeping the spec's minimum-raise rule
	// needs (spec.md 4.6: "minimum raise is the size of the last raise")
	// but that spec.md 3 doesn't name as its own field; it is the
	// currentCallAmount that was in effect immediately before the most
	// recent raise.
	PreviousCallAmount uint64

	// subPhaseActions counts how many distinct players have completed
	// the current Shuffling sub-state's required action (spec.md 4.3:
	// "requires every player, in turn order ..., to submit the
	// corresponding action exactly once before advancing"). The same
	// counter also counts posted blinds during Drawing/Setup and, during
	// a betting street, the actions since the last raise (betting.go).
	subPhaseActions uint8

	// revealedBy tracks, for the card currently being revealed (draw or
	// community), which seats have already submitted their inverse this
	// cycle (spec.md 4.5/4.7's duplicate-reveal check).
	revealedBy [10]bool

	// drawerSeat records which seat is drawing the card currently being
	// revealed, so RevealCard can reject the drawer's own premature
	// submission and Draw's cycle knows when to return to them last
	// (spec.md 4.5).
	drawerSeat uint8
}

// PlayerState is one seated player's record, spec.md 3.
type PlayerState struct {
	Player     Identity
	SeatIndex  uint8
	Chips      uint64
	CurrentBet uint64

	Commitment   [32]byte
	HasCommitted bool

	HoleCards       [2]uint8
	HoleCardsCount  uint8
	RevealedCards   [2]*curve.Point
	HoleCardDeckPos [2]uint8

	IsFolded bool
	IsAllIn  bool

	// hasSubmittedHand/submittedHand back SubmitBestHand + ClaimPot
	// (spec.md 4.8/4.9): each non-folded player submits once per hand.
	hasSubmittedHand bool
	submittedHand    [5]uint8

	// generatedThisHand records that the player has revealed their seed
	// in Generate this hand; StartNextGame clears it. Turn order, not
	// this flag, keeps each player to one Generate per hand. There is no
	// per-hand recommit operation, so a player's commitment is fixed for
	// the game's lifetime and Generate in every hand must reveal a seed
	// hashing to that same commitment.
	generatedThisHand bool
}

// DeckState holds the 52 current (possibly still locked) deck points and
// the 52 canonical original points established by MapDeck, spec.md 3.
type DeckState struct {
	Current  [DeckSize]*curve.Point
	Original [DeckSize]*curve.Point

	// staging buffers accumulate the two-part (26+26 or split-52)
	// submissions the wire format uses for MapDeck/Shuffle/Lock
	// (spec.md 6), committed to Current/Original only once both halves
	// have arrived.
	staging      [DeckSize]*curve.Point
	stagingCount int
}

// CommunityCards holds up to 5 community points and, once opened, their
// resolved indices, spec.md 3.
type CommunityCards struct {
	Points  [5]*curve.Point
	Indices [5]uint8
	Dealt   uint8
	Opened  uint8
}

// The accumulator is not redeclared here: Game.Acc holds an
// *internal/shuffle.Accumulator, whose Slots expose the raw per-card
// scalar sums mid-Generate.
