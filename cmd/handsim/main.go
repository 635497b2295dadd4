// Command handsim drives one complete hand through the engine package
// end to end: InitializeGame, Join, the full Commit/Generate/MapDeck/
// Shuffle/Lock cycle, blinds, hole-card draw/reveal, a check-down through
// every betting street, community-card dealing, showdown, and ClaimPot.
// It plays the part of the off-chain client and the players combined:
// it holds the private shuffle seeds and lock scalars a real client would
// keep, and only ever talks to the engine through Game.Dispatch and
// wire-encoded payloads, exactly as a hosting runtime would.
//
// Adapted from the teacher's cmd/server/main.go: flag parsing and a
// logrus banner at startup, with the websocket/HTTP server body replaced
// by a single local simulated hand (no network transport, per spec.md 1's
// Non-goals).
package main

import (
	"crypto/rand"
	"flag"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/RedPaladin7/onchainholdem/internal/curve"
	"github.com/RedPaladin7/onchainholdem/internal/deck"
	"github.com/RedPaladin7/onchainholdem/internal/engine"
	"github.com/RedPaladin7/onchainholdem/internal/evaluator"
	"github.com/RedPaladin7/onchainholdem/internal/shuffle"
	"github.com/RedPaladin7/onchainholdem/internal/vault"
	"github.com/RedPaladin7/onchainholdem/internal/wire"
)

const (
	appName    = "OnchainHoldem"
	appVersion = "1.0.0"
)

var log = logrus.WithField("component", "handsim")

func main() {
	players := flag.Int("players", 2, "number of players, 2..10")
	smallBlind := flag.Uint64("small-blind", 10, "small blind size")
	minBuyIn := flag.Uint64("min-buyin", 1000, "minimum buy-in")
	timeoutSeconds := flag.Uint("timeout", 120, "slash timeout in seconds")
	slashPercentage := flag.Uint("slash-pct", 10, "slash penalty percentage")
	logLevel := flag.String("log-level", "info", "logrus level")
	flag.Parse()

	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	log.Infof("%s v%s: simulating a %d-player hand", appName, appVersion, *players)

	sim := newSimulation(uint8(*players), *smallBlind, *minBuyIn, uint32(*timeoutSeconds), uint8(*slashPercentage))
	sim.run()
}

// simPlayer is the off-chain state a real player's client would hold:
// their shuffle seed (committed at Join, revealed at Generate), the
// single shuffle scalar they apply to the whole deck during their Shuffle
// turn, and the 52 per-card lock scalars they apply during Lock. The core
// only ever sees opaque 32-byte inverses, so this client combines both
// factors per card before inverting: that is what actually unwinds a
// point back to G*accumulator[i] (spec.md 4.4's Shuffle step never
// separately surfaces an inverse for the shuffle scalar, only for the
// lock, so a reveal must undo both of one player's contributions at
// once).
type simPlayer struct {
	id            engine.Identity
	seed          [32]byte
	shuffleScalar *big.Int
	lockScalars   [52]*big.Int
	submitted     bool
}

// combined returns this player's full per-card encryption factor
// (shuffle scalar times lock scalar for position i), the value whose
// modular inverse a reveal must submit to fully undo this player's
// contribution to card i.
func (p *simPlayer) combined(i uint8) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(p.shuffleScalar, p.lockScalars[i]), curve.Order)
}

type simulation struct {
	game    *engine.Game
	players []*simPlayer
}

func identityFor(i int) engine.Identity {
	var raw [20]byte
	raw[19] = byte(i)
	return common.Address(raw)
}

func randomBytes32() [32]byte {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		log.WithError(err).Fatal("failed to read randomness")
	}
	return b
}

func newSimulation(numPlayers uint8, smallBlind, minBuyIn uint64, timeoutSeconds uint32, slashPercentage uint8) *simulation {
	authority := identityFor(100)
	gameID := randomBytes32()
	v := vault.NewMemoryVault()
	now := func() int64 { return time.Now().Unix() }

	initPayload := wire.NewWriter().
		PutBytes32(gameID).
		PutU8(numPlayers).
		PutU64(smallBlind).
		PutU64(minBuyIn).
		Bytes()

	game, err := engine.DispatchInitializeGame(initPayload, authority, timeoutSeconds, slashPercentage, v, now)
	if err != nil {
		log.WithError(err).Fatal("InitializeGame failed")
	}

	sim := &simulation{game: game}
	for i := 0; i < int(numPlayers); i++ {
		sim.players = append(sim.players, &simPlayer{id: identityFor(i + 1), seed: randomBytes32()})
	}
	return sim
}

func (s *simulation) mustDispatch(op wire.Discriminator, who engine.Identity, payload []byte) {
	if err := s.game.Dispatch(op, who, payload); err != nil {
		log.WithFields(logrus.Fields{"op": op, "who": who}).WithError(err).Fatal("operation rejected")
	}
}

func (s *simulation) run() {
	s.joinAll()
	s.generateAll()
	s.mapDeck()
	s.shuffleAll()
	s.lockAll()
	s.postBlinds()
	s.drawHoleCards()
	s.playBettingAndCommunity()
	s.showdown()
	s.claimPot()

	log.Info("hand complete")
	for _, p := range s.game.Players {
		log.WithFields(logrus.Fields{"seat": p.SeatIndex, "chips": p.Chips, "folded": p.IsFolded}).Info("final chip count")
	}
}

func (s *simulation) joinAll() {
	for _, p := range s.players {
		commit := shuffle.Commitment(p.seed)
		payload := wire.NewWriter().PutBytes32(commit).PutU64(s.game.Config.MinBuyIn).Bytes()
		s.mustDispatch(wire.OpJoinGame, p.id, payload)
	}
	log.Info("all players joined; shuffling begins")
}

func (s *simulation) generateAll() {
	for s.game.State.Phase == engine.PhaseShuffling && s.game.State.ShuffleSub == engine.ShuffleGenerating {
		seat := s.game.State.CurrentTurn
		p := s.players[seat]
		payload := wire.NewWriter().PutBytes32(p.seed).Bytes()
		s.mustDispatch(wire.OpGenerate, p.id, payload)
	}
	log.Info("all shuffle seeds generated")
}

func (s *simulation) mapDeck() {
	originals, err := s.game.Acc.OriginalPoints()
	if err != nil {
		log.WithError(err).Fatal("failed to compute original deck points")
	}
	seat := s.game.State.CurrentTurn
	p := s.players[seat]

	s.mustDispatch(wire.OpMapDeckPart1, p.id, compressedHalf(originals, 0))
	s.mustDispatch(wire.OpMapDeckPart2, p.id, compressedHalf(originals, 1))
	log.Info("original deck mapped")
}

func (s *simulation) shuffleAll() {
	for s.game.State.Phase == engine.PhaseShuffling && s.game.State.ShuffleSub == engine.ShuffleShuffling {
		seat := s.game.State.CurrentTurn
		p := s.players[seat]

		scalar, err := curve.RandomScalar()
		if err != nil {
			log.WithError(err).Fatal("failed to draw shuffle scalar")
		}
		p.shuffleScalar = scalar
		shuffled, err := applyScalarToAll(s.game.Deck.Current, scalar)
		if err != nil {
			log.WithError(err).Fatal("shuffle scalar multiplication failed")
		}

		s.mustDispatch(wire.OpShufflePart1, p.id, compressedHalf(shuffled, 0))
		s.mustDispatch(wire.OpShufflePart2, p.id, compressedHalf(shuffled, 1))
	}
	log.Info("deck re-randomized by every player")
}

func (s *simulation) lockAll() {
	for s.game.State.Phase == engine.PhaseShuffling && s.game.State.ShuffleSub == engine.ShuffleLocking {
		seat := s.game.State.CurrentTurn
		p := s.players[seat]

		var locked [52]*curve.Point
		for i, pt := range s.game.Deck.Current {
			scalar, err := curve.RandomScalar()
			if err != nil {
				log.WithError(err).Fatal("failed to draw lock scalar")
			}
			p.lockScalars[i] = scalar
			out, err := curve.ScalarMul(pt, scalar)
			if err != nil {
				log.WithError(err).Fatal("lock scalar multiplication failed")
			}
			locked[i] = out
		}

		s.mustDispatch(wire.OpLockPart1, p.id, compressedHalf(locked, 0))
		s.mustDispatch(wire.OpLockPart2, p.id, compressedHalf(locked, 1))
	}
	log.Info("every card locked by every player")
}

func (s *simulation) postBlinds() {
	for s.game.State.Phase == engine.PhaseDrawing && s.game.State.TexasSub == engine.TexasSetup {
		seat := s.game.State.CurrentTurn
		p := s.players[seat]
		amount := s.game.Config.SmallBlind
		if s.game.State.CurrentCallAmount != 0 {
			amount = s.game.Config.SmallBlind * 2
		}
		payload := wire.NewWriter().PutU64(amount).Bytes()
		s.mustDispatch(wire.OpPlaceBlind, p.id, payload)
	}
	log.Info("blinds posted")
}

func (s *simulation) drawHoleCards() {
	for s.game.State.Phase == engine.PhaseDrawing {
		seat := s.game.State.CurrentTurn
		p := s.players[seat]
		if s.game.State.DrawSub == engine.DrawIdle {
			s.mustDispatch(wire.OpDraw, p.id, nil)
			continue
		}
		s.revealInverse(p, wire.OpRevealCard, s.game.State.CardToReveal)
	}
	for seat, p := range s.game.Players {
		log.WithField("seat", seat).Infof("hole cards: %s %s", deck.Short(p.HoleCards[0]), deck.Short(p.HoleCards[1]))
	}
}

// revealInverse submits the calling player's combined shuffle/lock
// inverse for cardIndex, whichever of RevealCard/OpenCommunityCard is
// appropriate for the current phase.
func (s *simulation) revealInverse(p *simPlayer, op wire.Discriminator, cardIndex uint8) {
	inv := new(big.Int).ModInverse(p.combined(cardIndex), curve.Order)
	if inv == nil {
		log.Fatal("encryption scalar has no modular inverse (should never happen for a nonzero scalar mod a prime order)")
	}
	payload := wire.NewWriter().PutBytes32(bigIntTo32(inv)).PutU8(cardIndex).Bytes()
	s.mustDispatch(op, p.id, payload)
}

func (s *simulation) playBettingAndCommunity() {
	for s.game.State.Phase == engine.PhaseBetting {
		switch s.game.State.TexasSub {
		case engine.TexasBetting:
			s.bettingStep()
		case engine.TexasCommunityAwaiting:
			s.communityStep()
		default:
			return
		}
	}
	board := s.game.Board
	cards := make([]string, 0, board.Opened)
	for i := uint8(0); i < board.Opened; i++ {
		cards = append(cards, deck.Short(board.Indices[i]))
	}
	log.Infof("betting complete through the river; board: %v", cards)
}

// bettingStep always checks or calls: every player matches
// currentCallAmount, demonstrating the implicit-check/implicit-call path
// (spec.md 4.6) rather than raising.
func (s *simulation) bettingStep() {
	seat := s.game.State.CurrentTurn
	p := s.players[seat]
	toCall := s.game.State.CurrentCallAmount - s.game.Players[seat].CurrentBet
	payload := wire.NewWriter().PutU64(toCall).Bytes()
	s.mustDispatch(wire.OpBet, p.id, payload)
}

func (s *simulation) communityStep() {
	board := s.game.Board
	if board.Dealt == board.Opened {
		dealer := s.players[s.game.Config.DealerIndex]
		s.mustDispatch(wire.OpDealCommunityCard, dealer.id, nil)
		return
	}
	seat := s.game.State.CurrentTurn
	p := s.players[seat]
	s.revealInverse(p, wire.OpOpenCommunityCard, s.game.State.CardToReveal)
}

func (s *simulation) showdown() {
	for s.game.State.Phase == engine.PhaseShowdown && s.game.State.TexasSub != engine.TexasClaimPot {
		if s.openPendingHoleCards() {
			continue
		}
		if s.submitPendingHands() {
			continue
		}
		return
	}
	log.Info("every hand submitted")
}

func (s *simulation) openPendingHoleCards() bool {
	opened := false
	for seat, p := range s.game.Players {
		if p.IsFolded {
			continue
		}
		sp := s.players[seat]
		for i := uint8(0); i < p.HoleCardsCount; i++ {
			if p.RevealedCards[i] == nil {
				continue
			}
			inv := new(big.Int).ModInverse(sp.combined(p.HoleCardDeckPos[i]), curve.Order)
			payload := wire.NewWriter().PutBytes32(bigIntTo32(inv)).PutU8(p.HoleCardDeckPos[i]).Bytes()
			s.mustDispatch(wire.OpOpenCard, sp.id, payload)
			opened = true
		}
	}
	return opened
}

func (s *simulation) submitPendingHands() bool {
	submittedAny := false
	for seat, p := range s.game.Players {
		if p.IsFolded {
			continue
		}
		sp := s.players[seat]
		if sp.submitted {
			continue
		}

		var available [7]evaluator.CardIndex
		available[0] = evaluator.CardIndex(p.HoleCards[0])
		available[1] = evaluator.CardIndex(p.HoleCards[1])
		for i := uint8(0); i < s.game.Board.Opened; i++ {
			available[2+i] = evaluator.CardIndex(s.game.Board.Indices[i])
		}

		best, _ := evaluator.SelectBest5(available)
		payload := wire.NewWriter()
		for _, c := range best {
			payload.PutBytes64(s.game.Deck.Original[uint8(c)].Bytes())
		}
		s.mustDispatch(wire.OpSubmitBestHand, sp.id, payload.Bytes())
		sp.submitted = true
		submittedAny = true
	}
	return submittedAny
}

func (s *simulation) claimPot() {
	if s.game.State.TexasSub != engine.TexasClaimPot {
		return
	}
	dealer := s.players[s.game.Config.DealerIndex]
	s.mustDispatch(wire.OpClaimPot, dealer.id, nil)
	log.Info("pot claimed")
}

// compressedHalf builds the 26*32-byte payload for half (0 or 1) of a
// 52-point deck, the wire layout every MapDeck/Shuffle/Lock part uses
// (spec.md 6).
func compressedHalf(points [52]*curve.Point, half int) []byte {
	w := wire.NewWriter()
	for i := 0; i < 26; i++ {
		c := points[half*26+i].Compress()
		w.PutBytes32(c)
	}
	return w.Bytes()
}

func applyScalarToAll(points [52]*curve.Point, scalar *big.Int) ([52]*curve.Point, error) {
	var out [52]*curve.Point
	for i, pt := range points {
		np, err := curve.ScalarMul(pt, scalar)
		if err != nil {
			return out, err
		}
		out[i] = np
	}
	return out, nil
}

func bigIntTo32(n *big.Int) [32]byte {
	var out [32]byte
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}
