package engine

import "github.com/RedPaladin7/onchainholdem/internal/curve"

// Draw is discriminator 6. The active player draws the top card of the
// deck; the core marks it as the reveal target and cycles the turn to the
// other players so they can submit their lock inverses (spec.md 4.5). The
// drawer's own seat is marked as already "revealed" up front: they never
// submit an inverse for their own card during this cycle (spec.md 4.5
// step 2, "the player is not the drawer"), so it stays locked under their
// own scalar until they choose to reveal it via OpenCard at showdown.
func (g *Game) Draw(who Identity) error {
	if g.State.Phase != PhaseDrawing || g.State.TexasSub != TexasDrawing || g.State.DrawSub != DrawIdle {
		return errInvalidPhase("Draw only valid during Drawing/Idle, after blinds are posted")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if g.State.CardsLeftInDeck == 0 {
		return errInvalidInstruction("no cards left in deck")
	}

	g.State.CardToReveal = g.State.CardsLeftInDeck - 1
	g.State.CardsLeftInDeck--
	g.State.DrawSub = DrawRevealing
	g.State.drawerSeat = p.SeatIndex
	g.State.revealedBy = [10]bool{}
	g.State.revealedBy[p.SeatIndex] = true

	g.State.CurrentTurn = g.nextSeat(p.SeatIndex)
	g.touch()
	return nil
}

// RevealCard is discriminator 7. Every player other than the drawer
// submits their lock inverse for the active target; once the last
// non-drawer has, the card completes automatically and turn passes to the
// next active seat after the drawer, who draws next (spec.md 4.5). Hole cards stored here
// are EC points only, still locked under the drawer's own scalar; their
// 0..51 index is fixed only later, at Open/Showdown.
func (g *Game) RevealCard(who Identity, invKey [32]byte, cardIndex uint8) error {
	if g.State.Phase != PhaseDrawing || g.State.DrawSub != DrawRevealing {
		return errInvalidPhase("RevealCard only valid during Drawing/Revealing")
	}
	if cardIndex != g.State.CardToReveal {
		return errWrongRevealTarget()
	}
	p, err := g.requirePlayer(who)
	if err != nil {
		return err
	}
	if p.SeatIndex != g.State.CurrentTurn {
		return errNotYourTurn()
	}
	if p.SeatIndex == g.State.drawerSeat {
		return errInvalidInstruction("the drawer does not reveal their own card during draw")
	}
	if g.State.revealedBy[p.SeatIndex] {
		return errDuplicateReveal()
	}

	pt, err := applyInverse(g.Deck.Current[cardIndex], invKey)
	if err != nil {
		return err
	}
	g.Deck.Current[cardIndex] = pt
	g.State.revealedBy[p.SeatIndex] = true

	next := g.nextSeat(p.SeatIndex)
	if next == g.State.drawerSeat {
		return g.completeDraw()
	}

	g.State.CurrentTurn = next
	g.touch()
	return nil
}

// applyInverse multiplies pt by the supplied scalar (the submitter's lock
// inverse), undoing that player's lock contribution (spec.md 4.1/4.4).
func applyInverse(pt *curve.Point, invKey [32]byte) (*curve.Point, error) {
	scalar := bytesToScalar(invKey)
	out, err := curve.ScalarMul(pt, scalar)
	if err != nil {
		if err == curve.ErrInvalidScalar {
			return nil, errInvalidScalar()
		}
		if err == curve.ErrPointAtInfinity {
			return nil, errPointAtInfinity()
		}
		return nil, err
	}
	return out, nil
}

func (g *Game) completeDraw() error {
	drawer := g.Players[g.State.drawerSeat]
	if drawer.HoleCardsCount < 2 {
		drawer.RevealedCards[drawer.HoleCardsCount] = g.Deck.Current[g.State.CardToReveal]
		drawer.HoleCardDeckPos[drawer.HoleCardsCount] = g.State.CardToReveal
		drawer.HoleCardsCount++
	}

	g.State.CardsDrawn++
	g.State.DrawSub = DrawIdle

	total := uint8(2) * g.Config.CurrentPlayers
	if g.State.CardsDrawn == total {
		g.State.Phase = PhaseBetting
		g.State.TexasSub = TexasBetting
		g.State.BettingSub = BetPreFlop
		g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
		// The big blind's post already counts as the opening "raise" for
		// this street, so the consecutive-action counter starts at 1
		// rather than 0 (betting.go's advanceAfterAction/completeRound).
		g.State.subPhaseActions = 1
	} else {
		g.State.CurrentTurn = g.nextActiveSeat(g.State.drawerSeat, false)
	}
	g.touch()
	return nil
}
