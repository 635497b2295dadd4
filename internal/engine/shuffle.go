package engine

import (
	"github.com/RedPaladin7/onchainholdem/internal/curve"
	"github.com/RedPaladin7/onchainholdem/internal/shuffle"
)

// Generate is discriminator 2. Each player, in turn starting at
// firstShuffleTurn, reveals their shuffle seed; the core checks it against
// the stored commitment and folds its derived values into the
// accumulator (spec.md 4.4).
func (g *Game) Generate(who Identity, seed [32]byte) error {
	if g.State.Phase != PhaseShuffling || g.State.ShuffleSub != ShuffleGenerating {
		return errInvalidPhase("Generate only valid during Shuffling/Generating")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if shuffle.Commitment(seed) != p.Commitment {
		return errCommitmentMismatch()
	}

	g.Acc.Add(seed)
	p.generatedThisHand = true

	g.State.CurrentTurn = g.nextSeat(g.State.CurrentTurn)
	g.State.subPhaseActions++
	if g.State.subPhaseActions == g.Config.CurrentPlayers {
		g.State.ShuffleSub = ShuffleMappingDeck
		g.State.subPhaseActions = 0
		g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
	}
	g.touch()
	return nil
}

// decompressHalf decodes 26 compressed 32-byte points, returning
// PointNotOnCurve/PointAtInfinity on the first bad entry.
func decompressHalf(blob []byte) ([26]*curve.Point, error) {
	var out [26]*curve.Point
	if len(blob) != 26*32 {
		return out, errInvalidInstruction("expected 26 compressed points")
	}
	for i := 0; i < 26; i++ {
		pt, err := curve.Decompress(blob[i*32 : i*32+32])
		if err != nil {
			if err == curve.ErrPointAtInfinity {
				return out, errPointAtInfinity()
			}
			return out, errPointNotOnCurve()
		}
		out[i] = pt
	}
	return out, nil
}

func (g *Game) ingestHalf(blob []byte, half int) error {
	if g.Deck.staging[half*26] != nil {
		return errInvalidInstruction("this half was already submitted")
	}
	pts, err := decompressHalf(blob)
	if err != nil {
		return err
	}
	for i, pt := range pts {
		g.Deck.staging[half*26+i] = pt
	}
	g.Deck.stagingCount += 26
	return nil
}

// MapDeckPart1/MapDeckPart2 are discriminators 25/26. Only the first
// shuffler submits, across two 26-point halves (spec.md 4.4/6). Once both
// halves arrive, the core checks every point is on-curve (done during
// decompression) and stores them as the canonical OriginalDeck.
func (g *Game) MapDeckPart1(who Identity, points []byte) error { return g.mapDeckPart(who, points, 0) }
func (g *Game) MapDeckPart2(who Identity, points []byte) error { return g.mapDeckPart(who, points, 1) }

func (g *Game) mapDeckPart(who Identity, points []byte, half int) error {
	if g.State.Phase != PhaseShuffling || g.State.ShuffleSub != ShuffleMappingDeck {
		return errInvalidPhase("MapDeck only valid during Shuffling/MappingDeck")
	}
	if _, err := g.requireTurn(who); err != nil {
		return err
	}
	if err := g.ingestHalf(points, half); err != nil {
		return err
	}
	if g.Deck.stagingCount < DeckSize {
		g.touch()
		return nil
	}

	g.Deck.Original = g.Deck.staging
	g.Deck.Current = g.Deck.staging
	g.Deck.staging = [DeckSize]*curve.Point{}
	g.Deck.stagingCount = 0
	g.State.IsDeckSubmitted = true
	g.State.ShuffleSub = ShuffleShuffling
	g.State.subPhaseActions = 0
	g.touch()
	return nil
}

// ShufflePart1/ShufflePart2 are discriminators 20/21. Every player, in
// turn, submits a re-randomized, re-permuted deck (spec.md 4.4): the core
// stores it without verifying the permutation or multiplication, since
// the cryptographic guarantee only requires one honest shuffler.
func (g *Game) ShufflePart1(who Identity, points []byte) error { return g.shufflePart(who, points, 0) }
func (g *Game) ShufflePart2(who Identity, points []byte) error { return g.shufflePart(who, points, 1) }

func (g *Game) shufflePart(who Identity, points []byte, half int) error {
	if g.State.Phase != PhaseShuffling || g.State.ShuffleSub != ShuffleShuffling {
		return errInvalidPhase("Shuffle only valid during Shuffling/Shuffling")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if err := g.ingestHalf(points, half); err != nil {
		return err
	}
	if g.Deck.stagingCount < DeckSize {
		g.touch()
		return nil
	}

	g.Deck.Current = g.Deck.staging
	g.Deck.staging = [DeckSize]*curve.Point{}
	g.Deck.stagingCount = 0
	_ = p

	g.State.CurrentTurn = g.nextSeat(g.State.CurrentTurn)
	g.State.subPhaseActions++
	if g.State.subPhaseActions == g.Config.CurrentPlayers {
		g.State.ShuffleSub = ShuffleLocking
		g.State.subPhaseActions = 0
		g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
	}
	g.touch()
	return nil
}

// LockPart1/LockPart2 are discriminators 22/23. Every player, in turn,
// submits their per-card lock scalar applied to every deck point (spec.md
// 4.4). Once all players have locked, the hand transitions to Drawing.
func (g *Game) LockPart1(who Identity, points []byte) error { return g.lockPart(who, points, 0) }
func (g *Game) LockPart2(who Identity, points []byte) error { return g.lockPart(who, points, 1) }

func (g *Game) lockPart(who Identity, points []byte, half int) error {
	if g.State.Phase != PhaseShuffling || g.State.ShuffleSub != ShuffleLocking {
		return errInvalidPhase("Lock only valid during Shuffling/Locking")
	}
	if _, err := g.requireTurn(who); err != nil {
		return err
	}
	if err := g.ingestHalf(points, half); err != nil {
		return err
	}
	if g.Deck.stagingCount < DeckSize {
		g.touch()
		return nil
	}

	g.Deck.Current = g.Deck.staging
	g.Deck.staging = [DeckSize]*curve.Point{}
	g.Deck.stagingCount = 0

	g.State.CurrentTurn = g.nextSeat(g.State.CurrentTurn)
	g.State.subPhaseActions++
	if g.State.subPhaseActions == g.Config.CurrentPlayers {
		g.finishLocking()
	}
	g.touch()
	return nil
}

// finishLocking transitions Shuffling -> Drawing once every player has
// locked every card (spec.md 4.4: "After the last Lock, transition to
// Drawing/Setup").
func (g *Game) finishLocking() {
	g.State.ShuffleSub = ShuffleDone
	g.State.Phase = PhaseDrawing
	g.State.TexasSub = TexasSetup
	g.State.BettingSub = BetBlinds
	g.State.CardsLeftInDeck = DeckSize
	g.State.subPhaseActions = 0
	g.State.CurrentTurn = smallBlindSeat(g.Config.DealerIndex, g.Config.CurrentPlayers)
}

// smallBlindSeat and bigBlindSeat are dealerIndex+1 and dealerIndex+2 mod
// currentPlayers. For heads-up tables dealerIndex+1 mod 2 is the other
// seat and dealerIndex+2 mod 2 returns to the dealer, so the non-dealer
// posts the small blind and the dealer posts the big blind.
func smallBlindSeat(dealerIndex, currentPlayers uint8) uint8 {
	if currentPlayers == 0 {
		return 0
	}
	return (dealerIndex + 1) % currentPlayers
}

func bigBlindSeat(dealerIndex, currentPlayers uint8) uint8 {
	if currentPlayers == 0 {
		return 0
	}
	return (dealerIndex + 2) % currentPlayers
}
