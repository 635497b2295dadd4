package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/RedPaladin7/onchainholdem/internal/curve"
	"github.com/RedPaladin7/onchainholdem/internal/shuffle"
	"github.com/RedPaladin7/onchainholdem/internal/vault"
)

var log = logrus.WithField("component", "engine")

// Game is one closed-world hand-table: GameConfig, GameState, DeckState,
// the Accumulator, CommunityCards, and the ordered PlayerList (each
// PlayerState's SeatIndex is its position in Players). Exactly one
// mutating method runs at a time per spec.md 5's serialization
// assumption; Game takes no lock of its own, so callers must serialize
// calls against the same Game.
type Game struct {
	Config GameConfig
	State  GameState
	Deck   DeckState
	Acc    *shuffle.Accumulator
	Board  CommunityCards

	Players []*PlayerState

	Vault vault.Vault

	now func() int64
}

// NewGame constructs a Game per InitializeGame (discriminator 0).
func NewGame(gameID [32]byte, authority Identity, maxPlayers uint8, smallBlind, minBuyIn uint64,
	timeoutSeconds uint32, slashPercentage uint8, v vault.Vault, nowFn func() int64) (*Game, error) {
	if maxPlayers < 2 || maxPlayers > 10 {
		return nil, errInvalidInstruction("maxPlayers must be in 2..=10")
	}
	if slashPercentage > 100 {
		return nil, errInvalidInstruction("slashPercentage must be in 0..=100")
	}

	g := &Game{
		Config: GameConfig{
			GameID:             gameID,
			Authority:          authority,
			MaxPlayers:         maxPlayers,
			CurrentPlayers:     0,
			SmallBlind:         smallBlind,
			MinBuyIn:           minBuyIn,
			DealerIndex:        0,
			IsAcceptingPlayers: true,
			TimeoutSeconds:     timeoutSeconds,
			SlashPercentage:    slashPercentage,
			GameNumber:         0,
		},
		State: GameState{
			Phase:   PhaseWaitingForPlayers,
			DrawSub: DrawIdle,
		},
		Vault: v,
		now:   nowFn,
	}
	log.WithFields(logrus.Fields{"max_players": maxPlayers, "small_blind": smallBlind}).Info("game initialized")
	return g, nil
}

func (g *Game) touch() {
	g.State.LastActionTimestamp = g.now()
}

func (g *Game) playerIndex(who Identity) int {
	for i, p := range g.Players {
		if p.Player == who {
			return i
		}
	}
	return -1
}

func (g *Game) requirePlayer(who Identity) (*PlayerState, error) {
	idx := g.playerIndex(who)
	if idx < 0 {
		return nil, errNotAPlayer()
	}
	return g.Players[idx], nil
}

func (g *Game) requireTurn(who Identity) (*PlayerState, error) {
	p, err := g.requirePlayer(who)
	if err != nil {
		return nil, err
	}
	if p.SeatIndex != g.State.CurrentTurn {
		return nil, errNotYourTurn()
	}
	return p, nil
}

// nextSeat advances a seat index by one, wrapping mod currentPlayers.
func (g *Game) nextSeat(seat uint8) uint8 {
	n := g.Config.CurrentPlayers
	if n == 0 {
		return 0
	}
	return (seat + 1) % n
}

// nextActiveSeat advances past folded (and, when skipAllIn is set,
// all-in) players, per spec.md 4.3's turn-advancement rule.
func (g *Game) nextActiveSeat(seat uint8, skipAllIn bool) uint8 {
	n := g.Config.CurrentPlayers
	if n == 0 {
		return 0
	}
	next := g.nextSeat(seat)
	for i := uint8(0); i < n; i++ {
		p := g.Players[next]
		if !p.IsFolded && (!skipAllIn || !p.IsAllIn) {
			return next
		}
		next = g.nextSeat(next)
	}
	return next
}

// JoinGame is discriminator 1.
func (g *Game) JoinGame(who Identity, commitment [32]byte, depositAmount uint64) error {
	if !g.Config.IsAcceptingPlayers {
		return errGameNotAcceptingPlayers()
	}
	if g.Config.CurrentPlayers >= g.Config.MaxPlayers {
		return errGameFull()
	}
	if depositAmount < g.Config.MinBuyIn {
		return errInsufficientFunds("deposit below minBuyIn")
	}
	if g.playerIndex(who) >= 0 {
		return errInvalidInstruction("player already joined")
	}
	if g.Vault != nil {
		if err := g.Vault.Deposit(context.Background(), g.Config.GameID, who, depositAmount); err != nil {
			return errInsufficientFunds(err.Error())
		}
	}

	seat := g.Config.CurrentPlayers
	player := &PlayerState{
		Player:       who,
		SeatIndex:    seat,
		Chips:        depositAmount,
		Commitment:   commitment,
		HasCommitted: true,
	}
	g.Players = append(g.Players, player)
	g.Config.CurrentPlayers++
	g.State.ActivePlayerCount++

	log.WithFields(logrus.Fields{"seat": seat, "deposit": depositAmount}).Info("player joined")

	if g.Config.CurrentPlayers == g.Config.MaxPlayers {
		g.startShuffling()
	}
	g.touch()
	return nil
}

// startShuffling transitions WaitingForPlayers -> Shuffling once the game
// is full. Committing auto-completes (spec.md 4.3) since every player's
// commitment was already recorded at Join; the sub-state advances
// straight to Generating.
func (g *Game) startShuffling() {
	g.Config.IsAcceptingPlayers = false
	g.State.Phase = PhaseShuffling
	g.State.ShuffleSub = ShuffleGenerating
	g.State.CardsLeftInDeck = DeckSize
	g.Acc = shuffle.NewAccumulator()
	g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
	g.State.subPhaseActions = 0
	log.Info("shuffling phase entered")
}

// firstShuffleTurn is (dealerIndex+3) mod currentPlayers, the first to act
// pre-flop (spec.md 4.3), and also the first Generate/Shuffle/Lock turn.
func firstShuffleTurn(dealerIndex, currentPlayers uint8) uint8 {
	if currentPlayers == 0 {
		return 0
	}
	return (dealerIndex + 3) % currentPlayers
}

// Leave is discriminator 17: only legal while the game is between hands
// (WaitingForPlayers or Finished), mirroring the teacher's AddPlayer/
// RemovePlayer lifecycle which never removes a seated player mid-hand.
func (g *Game) Leave(who Identity) error {
	if g.State.Phase != PhaseWaitingForPlayers && g.State.Phase != PhaseFinished {
		return errInvalidPhase("cannot leave mid-hand")
	}
	idx := g.playerIndex(who)
	if idx < 0 {
		return errNotAPlayer()
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	for i, p := range g.Players {
		p.SeatIndex = uint8(i)
	}
	g.Config.CurrentPlayers--
	if g.State.ActivePlayerCount > 0 {
		g.State.ActivePlayerCount--
	}
	if g.Config.CurrentPlayers < g.Config.MaxPlayers {
		g.Config.IsAcceptingPlayers = true
	}
	g.touch()
	return nil
}

// CloseGame is discriminator 19: only the authority may close, and only
// between hands.
func (g *Game) CloseGame(who Identity) error {
	if who != g.Config.Authority {
		return errNotAuthority()
	}
	if g.State.Phase != PhaseWaitingForPlayers && g.State.Phase != PhaseFinished {
		return errInvalidPhase("cannot close mid-hand")
	}
	g.State.Phase = PhaseFinished
	g.Config.IsAcceptingPlayers = false
	g.touch()
	return nil
}

// StartNextGame is discriminator 16: resets per-hand state (DeckState,
// Accumulator, CommunityCards) per spec.md 3's lifecycle note, rotates the
// dealer, and returns to Shuffling (Committing auto-completes immediately
// since all seats are already filled and committed).
func (g *Game) StartNextGame(who Identity) error {
	if g.State.Phase != PhaseFinished {
		return errInvalidPhase("StartNextGame only valid once the previous hand finished")
	}
	if _, err := g.requirePlayer(who); err != nil {
		return err
	}
	if g.Config.CurrentPlayers < 2 {
		return errInvalidInstruction("at least 2 players required to start a hand")
	}

	g.Config.DealerIndex = g.nextSeat(g.Config.DealerIndex)
	g.Config.GameNumber++

	for _, p := range g.Players {
		p.CurrentBet = 0
		p.IsFolded = false
		p.IsAllIn = false
		p.HoleCards = [2]uint8{}
		p.HoleCardsCount = 0
		p.RevealedCards = [2]*curve.Point{}
		p.hasSubmittedHand = false
		p.submittedHand = [5]uint8{}
		p.generatedThisHand = false
	}

	g.Deck = DeckState{}
	g.Board = CommunityCards{}
	g.State = GameState{
		Phase:               PhaseWaitingForPlayers,
		DrawSub:             DrawIdle,
		ActivePlayerCount:   g.Config.CurrentPlayers,
		LastActionTimestamp: g.now(),
	}

	g.startShuffling()
	g.touch()
	return nil
}
