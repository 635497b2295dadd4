package engine

// DealCommunityCard is discriminator 11. The dealer pops the top card into
// the next open community-card slot (spec.md 4.7) and the core immediately
// opens a reveal cycle for it, mirroring the hole-card Draw/RevealCard
// cycle in draw.go: every non-dealer player submits their inverse, the
// dealer submits theirs last, and only then may the dealer deal the next
// card. For the flop this repeats three times before the street reopens
// for betting.
func (g *Game) DealCommunityCard(who Identity) error {
	if g.State.Phase != PhaseBetting || g.State.TexasSub != TexasCommunityAwaiting {
		return errInvalidPhase("DealCommunityCard only valid while community cards are awaited")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if p.SeatIndex != g.Config.DealerIndex {
		return errNotAuthority()
	}

	if g.Board.Dealt != g.Board.Opened {
		return errInvalidPhase("the previous community card is still being opened")
	}
	target := cardsNeededFor(g.State.CommunitySub)
	if g.Board.Dealt >= target {
		return errInvalidInstruction("all cards for this street already dealt")
	}
	if g.State.CardsLeftInDeck == 0 {
		return errInvalidInstruction("no cards left in deck")
	}

	slot := g.Board.Dealt
	cardIdx := g.State.CardsLeftInDeck - 1
	g.Board.Points[slot] = g.Deck.Current[cardIdx]
	g.State.CardsLeftInDeck--
	g.Board.Dealt++

	g.State.CardToReveal = cardIdx
	g.State.revealedBy = [10]bool{}
	g.State.CurrentTurn = g.nextSeat(g.Config.DealerIndex)
	g.touch()
	return nil
}

// cardsNeededFor returns the cumulative number of community cards dealt
// by the end of the given street.
func cardsNeededFor(c CommunityState) uint8 {
	switch c {
	case CommunityNone:
		return 3
	case CommunityFlop:
		return 4
	case CommunityTurn:
		return 5
	default:
		return 5
	}
}

// OpenCommunityCard is discriminator 12. Every non-dealer player submits
// their lock inverse for the most recently dealt community slot, the
// dealer submits theirs last, and the resolved point is matched against
// the OriginalDeck to fix the card's 0..51 index (spec.md 4.7).
func (g *Game) OpenCommunityCard(who Identity, invKey [32]byte, cardIndex uint8) error {
	if g.State.Phase != PhaseBetting || g.State.TexasSub != TexasCommunityAwaiting {
		return errInvalidPhase("OpenCommunityCard only valid while community cards are awaited")
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
	if g.State.revealedBy[p.SeatIndex] {
		return errDuplicateReveal()
	}

	slot := g.Board.Dealt - 1
	pt, err := applyInverse(g.Board.Points[slot], invKey)
	if err != nil {
		return err
	}
	if p.SeatIndex == g.Config.DealerIndex {
		if _, ok := g.findOriginalIndex(pt); !ok {
			return errPointNotOnCurve()
		}
	}
	g.Board.Points[slot] = pt
	g.State.revealedBy[p.SeatIndex] = true

	if p.SeatIndex == g.Config.DealerIndex {
		return g.finishCommunityReveal(slot)
	}

	g.State.CurrentTurn = g.nextSeat(g.State.CurrentTurn)
	g.touch()
	return nil
}

// finishCommunityReveal resolves the just-unlocked community point to a
// canonical card index. If more cards remain for this street the dealer
// deals the next one; once the street's full card count is both dealt and
// opened, play returns to Betting (spec.md 4.7's "on completion ...
// transition to Betting").
func (g *Game) finishCommunityReveal(slot uint8) error {
	idx, ok := g.findOriginalIndex(g.Board.Points[slot])
	if !ok {
		return errPointNotOnCurve()
	}
	g.Board.Indices[slot] = idx
	g.Board.Opened++

	target := cardsNeededFor(g.State.CommunitySub)
	if g.Board.Opened == target {
		switch g.State.CommunitySub {
		case CommunityNone:
			g.State.CommunitySub = CommunityFlop
		case CommunityFlop:
			g.State.CommunitySub = CommunityTurn
		case CommunityTurn:
			g.State.CommunitySub = CommunityRiver
		}
		// BettingSub was already advanced by completeRound (betting.go)
		// when this community stage was entered; subPhaseActions was
		// reset to 0 there too, so the fresh street opens with nobody
		// having acted yet.
		g.State.TexasSub = TexasBetting
		g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
	} else {
		g.State.CurrentTurn = g.Config.DealerIndex
	}
	g.touch()
	return nil
}
