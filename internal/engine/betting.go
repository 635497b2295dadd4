// Package engine's betting.go implements BettingEngine (spec.md 4.6):
// blind posting, bet/call/check/fold validation, round-completion
// detection, and the transition into CommunityDealer/Showdown.
//
// Grounded on the teacher's internal/game/betting.go and actions.go:
// advanceTurnAndCheckRoundEnd/incNextPlayer/checkRoundEnd for round
// completion, postBlinds for the blind-posting special case, and
// HandlePlayerAction's turn/amount validation, adapted to this repo's
// GameState/PlayerState shapes and the spec's single-pot model. Round
// completion is tracked as a consecutive-non-raising-action counter
// (subPhaseActions, reused from the Shuffling sub-states since the two
// never overlap) against the number of players still eligible to act,
// rather than literally detecting "the turn returned to the last
// raiser" — equivalent by construction, and simpler to keep correct
// across players going all-in or folding mid-street.
package engine

// PlaceBlind is discriminator 8. The small blind and big blind are posted
// by the two players in turn (spec.md 4.3's Blinds sub-state); PlaceBlind
// rejects any amount other than the expected blind size for the slot.
func (g *Game) PlaceBlind(who Identity, amount uint64) error {
	if g.State.Phase != PhaseDrawing || g.State.TexasSub != TexasSetup {
		return errInvalidPhase("PlaceBlind only valid during Drawing/Setup")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}

	var expected uint64
	if g.State.subPhaseActions == 0 {
		expected = g.Config.SmallBlind
	} else {
		expected = g.Config.SmallBlind * 2
	}
	if amount != expected {
		return errInvalidBet("blind amount does not match the expected blind size")
	}
	if amount > p.Chips {
		return errInsufficientFunds("blind exceeds remaining chips")
	}

	allIn := amount == p.Chips
	p.Chips -= amount
	p.CurrentBet += amount
	p.IsAllIn = allIn
	g.State.Pot += amount

	// Blinds are not a raise for min-raise accounting (spec.md 4.6): the
	// first voluntary preflop raise must clear a full big blind over the
	// call amount, so previousCallAmount stays 0 through blind posting
	// rather than picking up the small blind as a phantom "previous bet".
	if amount > g.State.CurrentCallAmount {
		g.State.CurrentCallAmount = amount
		g.State.LastToCall = who
	}

	g.State.subPhaseActions++
	if g.State.subPhaseActions >= 2 {
		g.State.TexasSub = TexasDrawing
		g.State.subPhaseActions = 0
		g.State.CurrentTurn = firstShuffleTurn(g.Config.DealerIndex, g.Config.CurrentPlayers)
	} else {
		g.State.CurrentTurn = bigBlindSeat(g.Config.DealerIndex, g.Config.CurrentPlayers)
	}
	g.touch()
	return nil
}

// Bet is discriminator 9. amount == 0 with currentBet already equal to
// currentCallAmount is an implicit check; amount exactly
// currentCallAmount-currentBet is an implicit call; anything larger is a
// raise, validated against the minimum-raise rule (spec.md 4.6).
func (g *Game) Bet(who Identity, amount uint64) error {
	if g.State.Phase != PhaseBetting || g.State.TexasSub != TexasBetting {
		return errInvalidPhase("Bet only valid during a betting round")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if p.IsFolded {
		return errInvalidPhase("folded players cannot act")
	}
	if amount > p.Chips {
		return errInsufficientFunds("bet exceeds remaining chips")
	}

	toCall := g.State.CurrentCallAmount - p.CurrentBet
	resultingBet := p.CurrentBet + amount

	isCheck := amount == 0 && toCall == 0
	isCall := amount == toCall
	isAllIn := amount == p.Chips && amount < toCall

	if !isCheck && !isCall && !isAllIn {
		minResulting := 2*g.State.CurrentCallAmount - g.State.PreviousCallAmount
		if resultingBet < minResulting && amount != p.Chips {
			return errInvalidBet("raise below the minimum raise size")
		}
	}

	allIn := amount == p.Chips
	isRaise := resultingBet > g.State.CurrentCallAmount

	p.Chips -= amount
	p.CurrentBet = resultingBet
	p.IsAllIn = allIn
	g.State.Pot += amount

	if isRaise {
		g.State.PreviousCallAmount = g.State.CurrentCallAmount
		g.State.CurrentCallAmount = resultingBet
		g.State.LastToCall = who
		g.State.subPhaseActions = 0
	}
	// Only players who can still act count toward round completion, since
	// eligibleToActCount excludes all-in players.
	if !allIn {
		g.State.subPhaseActions++
	}

	return g.advanceAfterAction(p.SeatIndex)
}

// Fold is discriminator 10.
func (g *Game) Fold(who Identity) error {
	if g.State.Phase != PhaseBetting || g.State.TexasSub != TexasBetting {
		return errInvalidPhase("Fold only valid during betting")
	}
	p, err := g.requireTurn(who)
	if err != nil {
		return err
	}
	if p.IsFolded {
		return errInvalidPhase("already folded")
	}

	p.IsFolded = true
	g.State.NumFoldedPlayers++
	if g.State.ActivePlayerCount > 0 {
		g.State.ActivePlayerCount--
	}

	if g.State.NumFoldedPlayers == g.Config.CurrentPlayers-1 {
		return g.enterClaimPotSoleWinner()
	}

	return g.advanceAfterAction(p.SeatIndex)
}

// enterClaimPotSoleWinner implements the BettingEngine early-end rule
// (spec.md 4.6: "if numFoldedPlayers == currentPlayers - 1, jump directly
// to ClaimPot with the sole remaining player as winner").
func (g *Game) enterClaimPotSoleWinner() error {
	for _, p := range g.Players {
		if !p.IsFolded {
			p.hasSubmittedHand = true
		}
	}
	g.State.TexasSub = TexasClaimPot
	g.State.Phase = PhaseShowdown
	g.State.NumSubmittedHands = 1
	g.touch()
	return nil
}

// eligibleToActCount returns how many non-folded, non-all-in players
// still have a decision to make this street.
func (g *Game) eligibleToActCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.IsFolded && !p.IsAllIn {
			n++
		}
	}
	return n
}

// advanceAfterAction moves the turn to the next active player and checks
// whether the betting round has completed.
func (g *Game) advanceAfterAction(actorSeat uint8) error {
	eligible := g.eligibleToActCount()
	if eligible == 0 {
		g.State.IsEverybodyAllIn = true
		g.completeRound()
		g.touch()
		return nil
	}

	if int(g.State.subPhaseActions) >= eligible {
		g.completeRound()
		g.touch()
		return nil
	}

	g.State.CurrentTurn = g.nextActiveSeat(actorSeat, true)
	g.touch()
	return nil
}

// completeRound zeroes per-player currentBet, keeps pot, and advances to
// the next community stage or to showdown (spec.md 4.6).
func (g *Game) completeRound() {
	for _, p := range g.Players {
		p.CurrentBet = 0
	}
	g.State.PreviousCallAmount = 0
	g.State.CurrentCallAmount = 0
	g.State.subPhaseActions = 0

	switch g.State.BettingSub {
	case BetPreFlop:
		g.State.BettingSub = BetPostFlop
		g.State.TexasSub = TexasCommunityAwaiting
		g.State.CommunitySub = CommunityNone
	case BetPostFlop:
		g.State.BettingSub = BetPostTurn
		g.State.TexasSub = TexasCommunityAwaiting
	case BetPostTurn:
		g.State.BettingSub = BetShowdown
		g.State.TexasSub = TexasCommunityAwaiting
	case BetShowdown:
		g.State.TexasSub = TexasRevealing
		g.State.Phase = PhaseShowdown
	}

	if g.State.TexasSub == TexasCommunityAwaiting {
		g.State.CurrentTurn = dealerSeatForCommunity(g.Config.DealerIndex)
	}
}

// dealerSeatForCommunity is the dealer's own seat: CommunityDealer
// operations (spec.md 4.7) are invoked by the dealer.
func dealerSeatForCommunity(dealerIndex uint8) uint8 { return dealerIndex }
