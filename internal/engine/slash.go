package engine

// Slash is discriminator 18. Any seated, non-folded player may slash the
// player whose action is overdue once now-lastActionTimestamp has reached
// timeoutSeconds (spec.md 4.10). Offender identification depends on the
// current phase: during Betting the offender is whoever currentTurn
// names; during the hole-card draw reveal cycle (and Showdown/Revealing)
// it is the first seat in turn order that has not yet revealed and is not
// the drawer; elsewhere (Shuffling/Locking/Generate, and the community-card
// reveal cycle, where currentTurn already names the next revealer) it is
// simply currentTurn.
func (g *Game) Slash(caller Identity) error {
	cp, err := g.requirePlayer(caller)
	if err != nil {
		return err
	}
	if cp.IsFolded {
		return errInvalidPhase("folded players cannot slash")
	}
	if g.State.Phase == PhaseWaitingForPlayers || g.State.Phase == PhaseFinished {
		return errInvalidPhase("Slash only valid mid-hand")
	}
	now := g.now()
	if now-g.State.LastActionTimestamp < int64(g.Config.TimeoutSeconds) {
		return errTimeoutNotReached()
	}

	offenderSeat := g.identifyOffender()
	offender := g.Players[offenderSeat]
	if offender.IsFolded {
		return errInvalidInstruction("offending seat already folded")
	}

	slashed := offender.Chips * uint64(g.Config.SlashPercentage) / 100
	offender.Chips -= slashed
	offender.IsFolded = true
	g.State.NumFoldedPlayers++
	if g.State.ActivePlayerCount > 0 {
		g.State.ActivePlayerCount--
	}

	others := g.nonFoldedExcept(offenderSeat)
	if len(others) > 0 && slashed > 0 {
		callerFirst := g.seatOrderStartingWithCaller(caller, offenderSeat)
		ordered := orderWinnersBySeat(others, callerFirst)
		share := slashed / uint64(len(ordered))
		remainder := int(slashed % uint64(len(ordered)))
		for i, p := range ordered {
			amt := share
			if i < remainder {
				amt++
			}
			p.Chips += amt
		}
	}

	if g.State.NumFoldedPlayers == g.Config.CurrentPlayers-1 {
		return g.enterClaimPotSoleWinner()
	}

	g.State.CurrentTurn = g.nextActiveSeat(offenderSeat, false)
	g.touch()
	return nil
}

// identifyOffender resolves the seat whose action is overdue for the
// current phase/sub-state (spec.md 4.10).
func (g *Game) identifyOffender() uint8 {
	switch g.State.Phase {
	case PhaseDrawing:
		if g.State.DrawSub == DrawRevealing {
			return g.firstUnrevealedNonDrawer()
		}
		return g.State.CurrentTurn
	case PhaseShowdown:
		if g.State.TexasSub == TexasRevealing {
			return g.firstUnrevealedNonDrawer()
		}
		return g.State.CurrentTurn
	default:
		return g.State.CurrentTurn
	}
}

// firstUnrevealedNonDrawer scans seats in turn order from the current
// drawer/dealer, skipping them, and returns the first seat that has not
// yet submitted its reveal for the active card.
func (g *Game) firstUnrevealedNonDrawer() uint8 {
	n := g.Config.CurrentPlayers
	seat := g.nextSeat(g.State.drawerSeat)
	for i := uint8(0); i < n; i++ {
		if !g.State.revealedBy[seat] && seat != g.State.drawerSeat {
			return seat
		}
		seat = g.nextSeat(seat)
	}
	return g.State.CurrentTurn
}

// nonFoldedExcept returns every non-folded player other than the seat
// passed in.
func (g *Game) nonFoldedExcept(seat uint8) []*PlayerState {
	out := make([]*PlayerState, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsFolded && p.SeatIndex != seat {
			out = append(out, p)
		}
	}
	return out
}

// seatOrderStartingWithCaller places the calling seat first, then the
// remaining seats in turn order from dealerIndex+1 (spec.md 4.10's "caller
// first, then seat order from dealerIndex+1" resolution of its own open
// question; see SPEC_FULL.md section 3).
func (g *Game) seatOrderStartingWithCaller(caller Identity, excludeSeat uint8) []uint8 {
	callerIdx := g.playerIndex(caller)
	rest := g.seatOrderFrom(g.nextSeat(g.Config.DealerIndex))

	order := make([]uint8, 0, len(rest)+1)
	if callerIdx >= 0 {
		callerSeat := g.Players[callerIdx].SeatIndex
		if callerSeat != excludeSeat {
			order = append(order, callerSeat)
		}
	}
	for _, s := range rest {
		if s == excludeSeat {
			continue
		}
		already := false
		for _, o := range order {
			if o == s {
				already = true
				break
			}
		}
		if !already {
			order = append(order, s)
		}
	}
	return order
}
