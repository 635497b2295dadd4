package engine

import "github.com/RedPaladin7/onchainholdem/internal/evaluator"

// OpenCard is discriminator 13. Each non-folded player unlocks each of
// their own two hole-card positions after every other player has already
// revealed it during the draw cycle (spec.md 4.8): the submitter's own
// inverse is the last one applied, and the resulting point is matched
// against OriginalDeck to fix a 0..51 index.
func (g *Game) OpenCard(who Identity, invKey [32]byte, cardIndex uint8) error {
	if g.State.Phase != PhaseShowdown || g.State.TexasSub != TexasRevealing {
		return errInvalidPhase("OpenCard only valid during Showdown/Revealing")
	}
	p, err := g.requirePlayer(who)
	if err != nil {
		return err
	}
	if p.IsFolded {
		return errInvalidPhase("folded players do not reveal")
	}

	target := -1
	for i := uint8(0); i < p.HoleCardsCount; i++ {
		if p.RevealedCards[i] != nil && p.HoleCardDeckPos[i] == cardIndex {
			target = int(i)
			break
		}
	}
	if target < 0 {
		return errWrongRevealTarget()
	}

	pt, err := applyInverse(p.RevealedCards[target], invKey)
	if err != nil {
		return err
	}
	idx, ok := g.findOriginalIndex(pt)
	if !ok {
		return errPointNotOnCurve()
	}

	p.HoleCards[target] = idx
	p.RevealedCards[target] = nil
	g.State.PlayerCardsOpened++
	g.touch()
	return nil
}

// SubmitBestHand is discriminator 14. The player supplies five EC points
// purported to be their best five-card hand; the core checks each point
// against the player's two hole points and the five community points with
// no repetition, converts to card indices, and evaluates the hand
// (spec.md 4.8).
func (g *Game) SubmitBestHand(who Identity, points [5][64]byte) error {
	if g.State.Phase != PhaseShowdown || g.State.TexasSub != TexasRevealing && g.State.TexasSub != TexasSubmitBest {
		return errInvalidPhase("SubmitBestHand only valid during Showdown")
	}
	p, err := g.requirePlayer(who)
	if err != nil {
		return err
	}
	if p.IsFolded {
		return errInvalidPhase("folded players do not submit a hand")
	}
	if p.hasSubmittedHand {
		return errInvalidInstruction("hand already submitted")
	}
	for i := uint8(0); i < p.HoleCardsCount; i++ {
		if p.RevealedCards[i] != nil {
			return errInvalidPhase("cannot submit a hand before this player's own hole cards are opened")
		}
	}

	available := make(map[uint8]bool, 7)
	available[uint8(p.HoleCards[0])] = true
	available[uint8(p.HoleCards[1])] = true
	for i := uint8(0); i < g.Board.Opened; i++ {
		available[g.Board.Indices[i]] = true
	}

	var cards [5]evaluator.CardIndex
	seen := make(map[uint8]bool, 5)
	for i, raw := range points {
		pt, err := decodeUncompressedPoint(raw)
		if err != nil {
			return err
		}
		idx, ok := g.findOriginalIndex(pt)
		if !ok {
			return errPointNotOnCurve()
		}
		if !available[idx] {
			return errInvalidBestHand("submitted point is not one of the player's hole cards or the community cards")
		}
		if seen[idx] {
			return errInvalidBestHand("submitted point repeats an already-used card")
		}
		seen[idx] = true
		cards[i] = evaluator.CardIndex(idx)
	}

	p.hasSubmittedHand = true
	for i, c := range cards {
		p.submittedHand[i] = uint8(c)
	}
	g.State.NumSubmittedHands++

	if g.State.NumSubmittedHands == g.nonFoldedCount() {
		g.State.TexasSub = TexasClaimPot
	} else {
		g.State.TexasSub = TexasSubmitBest
	}
	g.touch()
	return nil
}

func (g *Game) nonFoldedCount() uint8 {
	n := uint8(0)
	for _, p := range g.Players {
		if !p.IsFolded {
			n++
		}
	}
	return n
}
