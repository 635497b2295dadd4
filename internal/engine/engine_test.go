package engine

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/RedPaladin7/onchainholdem/internal/curve"
	"github.com/RedPaladin7/onchainholdem/internal/evaluator"
	"github.com/RedPaladin7/onchainholdem/internal/shuffle"
	"github.com/RedPaladin7/onchainholdem/internal/vault"
)

// testPlayer tracks the off-chain secrets a real client would hold: the
// commit-reveal seed, the one shuffle scalar applied to the whole deck,
// and the 52 per-card lock scalars, combined per-card the same way
// cmd/handsim does (spec.md 4.4's shuffle scalar has no separate reveal
// path of its own).
type testPlayer struct {
	id            Identity
	seed          [32]byte
	shuffleScalar *big.Int
	lockScalars   [52]*big.Int
}

func (p *testPlayer) combined(i uint8) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(p.shuffleScalar, p.lockScalars[i]), curve.Order)
}

func (p *testPlayer) inverseFor(i uint8) [32]byte {
	inv := new(big.Int).ModInverse(p.combined(i), curve.Order)
	var out [32]byte
	b := inv.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func identityFor(i int) Identity {
	var raw [20]byte
	raw[19] = byte(i)
	return common.Address(raw)
}

func newTestGame(t *testing.T, numPlayers uint8) (*Game, []*testPlayer) {
	t.Helper()
	var gameID [32]byte
	gameID[0] = 7
	now := int64(1000)
	nowFn := func() int64 { return now }
	g, err := NewGame(gameID, identityFor(100), numPlayers, 10, 1000, 120, 10, vault.NewMemoryVault(), nowFn)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	players := make([]*testPlayer, numPlayers)
	for i := range players {
		p := &testPlayer{id: identityFor(i + 1)}
		p.seed[0] = byte(i + 1)
		players[i] = p
	}

	for _, p := range players {
		commit := shuffle.Commitment(p.seed)
		if err := g.JoinGame(p.id, commit, 1000); err != nil {
			t.Fatalf("JoinGame: %v", err)
		}
	}
	return g, players
}

func applyScalarToAll(points [52]*curve.Point, scalar *big.Int) [52]*curve.Point {
	var out [52]*curve.Point
	for i, pt := range points {
		np, err := curve.ScalarMul(pt, scalar)
		if err != nil {
			panic(err)
		}
		out[i] = np
	}
	return out
}

func compressedHalf(points [52]*curve.Point, half int) [52 / 2][32]byte {
	var out [26][32]byte
	for i := 0; i < 26; i++ {
		out[i] = points[half*26+i].Compress()
	}
	return out
}

// runShuffleCycle drives Generate/MapDeck/Shuffle/Lock to completion for
// every seat, recording each player's shuffle and lock scalars.
func runShuffleCycle(t *testing.T, g *Game, players []*testPlayer) {
	t.Helper()

	for g.State.Phase == PhaseShuffling && g.State.ShuffleSub == ShuffleGenerating {
		p := players[g.State.CurrentTurn]
		if err := g.Generate(p.id, p.seed); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}

	originals, err := g.Acc.OriginalPoints()
	if err != nil {
		t.Fatalf("OriginalPoints: %v", err)
	}
	mapper := players[g.State.CurrentTurn]
	h0 := compressedHalf(originals, 0)
	h1 := compressedHalf(originals, 1)
	if err := g.MapDeckPart1(mapper.id, flatten(h0)); err != nil {
		t.Fatalf("MapDeckPart1: %v", err)
	}
	if err := g.MapDeckPart2(mapper.id, flatten(h1)); err != nil {
		t.Fatalf("MapDeckPart2: %v", err)
	}

	for g.State.Phase == PhaseShuffling && g.State.ShuffleSub == ShuffleShuffling {
		p := players[g.State.CurrentTurn]
		scalar, err := curve.RandomScalar()
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		p.shuffleScalar = scalar
		shuffled := applyScalarToAll(g.Deck.Current, scalar)
		s0 := compressedHalf(shuffled, 0)
		s1 := compressedHalf(shuffled, 1)
		if err := g.ShufflePart1(p.id, flatten(s0)); err != nil {
			t.Fatalf("ShufflePart1: %v", err)
		}
		if err := g.ShufflePart2(p.id, flatten(s1)); err != nil {
			t.Fatalf("ShufflePart2: %v", err)
		}
	}

	for g.State.Phase == PhaseShuffling && g.State.ShuffleSub == ShuffleLocking {
		p := players[g.State.CurrentTurn]
		var locked [52]*curve.Point
		for i, pt := range g.Deck.Current {
			scalar, err := curve.RandomScalar()
			if err != nil {
				t.Fatalf("RandomScalar: %v", err)
			}
			p.lockScalars[i] = scalar
			out, err := curve.ScalarMul(pt, scalar)
			if err != nil {
				t.Fatalf("ScalarMul: %v", err)
			}
			locked[i] = out
		}
		l0 := compressedHalf(locked, 0)
		l1 := compressedHalf(locked, 1)
		if err := g.LockPart1(p.id, flatten(l0)); err != nil {
			t.Fatalf("LockPart1: %v", err)
		}
		if err := g.LockPart2(p.id, flatten(l1)); err != nil {
			t.Fatalf("LockPart2: %v", err)
		}
	}
}

func flatten(h [26][32]byte) []byte {
	out := make([]byte, 0, 26*32)
	for _, b := range h {
		out = append(out, b[:]...)
	}
	return out
}

func postBlinds(t *testing.T, g *Game, players []*testPlayer) {
	t.Helper()
	for g.State.Phase == PhaseDrawing && g.State.TexasSub == TexasSetup {
		p := players[g.State.CurrentTurn]
		amount := g.Config.SmallBlind
		if g.State.CurrentCallAmount != 0 {
			amount = g.Config.SmallBlind * 2
		}
		if err := g.PlaceBlind(p.id, amount); err != nil {
			t.Fatalf("PlaceBlind: %v", err)
		}
	}
}

func drawHoleCards(t *testing.T, g *Game, players []*testPlayer) {
	t.Helper()
	for g.State.Phase == PhaseDrawing {
		seat := g.State.CurrentTurn
		p := players[seat]
		if g.State.DrawSub == DrawIdle {
			if err := g.Draw(p.id); err != nil {
				t.Fatalf("Draw: %v", err)
			}
			continue
		}
		if err := g.RevealCard(p.id, p.inverseFor(g.State.CardToReveal), g.State.CardToReveal); err != nil {
			t.Fatalf("RevealCard: %v", err)
		}
	}
}

func checkOrCallEveryStreet(t *testing.T, g *Game, players []*testPlayer) {
	t.Helper()
	for g.State.Phase == PhaseBetting {
		switch g.State.TexasSub {
		case TexasBetting:
			seat := g.State.CurrentTurn
			p := players[seat]
			toCall := g.State.CurrentCallAmount - g.Players[seat].CurrentBet
			if err := g.Bet(p.id, toCall); err != nil {
				t.Fatalf("Bet: %v", err)
			}
		case TexasCommunityAwaiting:
			if g.Board.Dealt == g.Board.Opened {
				dealer := players[g.Config.DealerIndex]
				if err := g.DealCommunityCard(dealer.id); err != nil {
					t.Fatalf("DealCommunityCard: %v", err)
				}
				continue
			}
			seat := g.State.CurrentTurn
			p := players[seat]
			if err := g.OpenCommunityCard(p.id, p.inverseFor(g.State.CardToReveal), g.State.CardToReveal); err != nil {
				t.Fatalf("OpenCommunityCard: %v", err)
			}
		default:
			return
		}
	}
}

func playShowdown(t *testing.T, g *Game, players []*testPlayer) {
	t.Helper()
	for g.State.Phase == PhaseShowdown && g.State.TexasSub != TexasClaimPot {
		progressed := false
		for seat, p := range g.Players {
			if p.IsFolded {
				continue
			}
			tp := players[seat]
			for i := uint8(0); i < p.HoleCardsCount; i++ {
				if p.RevealedCards[i] == nil {
					continue
				}
				pos := p.HoleCardDeckPos[i]
				if err := g.OpenCard(tp.id, tp.inverseFor(pos), pos); err != nil {
					t.Fatalf("OpenCard: %v", err)
				}
				progressed = true
			}
		}
		if progressed {
			continue
		}
		for seat, p := range g.Players {
			if p.IsFolded || p.hasSubmittedHand {
				continue
			}
			tp := players[seat]
			var available [7]evaluator.CardIndex
			available[0] = evaluator.CardIndex(p.HoleCards[0])
			available[1] = evaluator.CardIndex(p.HoleCards[1])
			for i := uint8(0); i < g.Board.Opened; i++ {
				available[2+i] = evaluator.CardIndex(g.Board.Indices[i])
			}
			best, _ := evaluator.SelectBest5(available)
			var points [5][64]byte
			for i, c := range best {
				points[i] = g.Deck.Original[uint8(c)].Bytes()
			}
			if err := g.SubmitBestHand(tp.id, points); err != nil {
				t.Fatalf("SubmitBestHand: %v", err)
			}
			progressed = true
		}
		if !progressed {
			t.Fatalf("showdown stalled with nothing to do")
		}
	}
}

// TestFullHandLifecycle drives a 2-player hand through every phase via
// the exported Game methods, the same path cmd/handsim drives through
// Dispatch, and checks the pot is fully awarded at the end.
func TestFullHandLifecycle(t *testing.T) {
	g, players := newTestGame(t, 2)

	runShuffleCycle(t, g, players)
	if g.State.Phase != PhaseDrawing {
		t.Fatalf("expected Drawing phase after shuffle cycle, got %v", g.State.Phase)
	}

	postBlinds(t, g, players)
	drawHoleCards(t, g, players)
	for _, p := range g.Players {
		if p.HoleCardsCount != 2 {
			t.Fatalf("seat %d: expected 2 hole cards, got %d", p.SeatIndex, p.HoleCardsCount)
		}
	}

	checkOrCallEveryStreet(t, g, players)
	if g.Board.Opened != 5 {
		t.Fatalf("expected 5 community cards opened, got %d", g.Board.Opened)
	}

	playShowdown(t, g, players)
	if g.State.TexasSub != TexasClaimPot {
		t.Fatalf("expected ClaimPot after showdown, got %v", g.State.TexasSub)
	}

	dealer := players[g.Config.DealerIndex]
	potBefore := g.State.Pot
	if potBefore == 0 {
		t.Fatalf("expected nonzero pot before claim")
	}
	if err := g.ClaimPot(dealer.id); err != nil {
		t.Fatalf("ClaimPot: %v", err)
	}
	if g.State.Pot != 0 {
		t.Fatalf("expected pot to be fully awarded, got %d remaining", g.State.Pot)
	}
}

// TestDrawerCannotRevealOwnCard pins spec.md 4.5's rule that the drawer
// never submits a reveal inverse for their own hole card during Draw;
// only OpenCard, later at showdown, can unlock it.
func TestDrawerCannotRevealOwnCard(t *testing.T) {
	g, players := newTestGame(t, 2)
	runShuffleCycle(t, g, players)
	postBlinds(t, g, players)

	drawer := players[g.State.CurrentTurn]
	if err := g.Draw(drawer.id); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	err := g.RevealCard(drawer.id, drawer.inverseFor(g.State.CardToReveal), g.State.CardToReveal)
	if err == nil {
		t.Fatalf("expected drawer's own RevealCard call to be rejected")
	}
}
