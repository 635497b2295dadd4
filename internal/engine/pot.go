package engine

import (
	"context"

	"github.com/RedPaladin7/onchainholdem/internal/evaluator"
)

// ClaimPot is discriminator 15. Once every non-folded player has submitted
// a best hand, the dealer ranks them, partitions winners, and distributes
// the pot (spec.md 4.9).
func (g *Game) ClaimPot(who Identity) error {
	if g.State.Phase != PhaseShowdown || g.State.TexasSub != TexasClaimPot {
		return errInvalidPhase("ClaimPot only valid once every hand has been submitted")
	}
	p, err := g.requirePlayer(who)
	if err != nil {
		return err
	}
	if p.SeatIndex != g.Config.DealerIndex {
		return errNotAuthority()
	}
	if g.State.PotClaimed {
		return errAlreadyClaimed()
	}

	winners := g.rankWinners()
	if len(winners) == 0 {
		return errNothingToClaim()
	}

	if err := g.payoutShares(g.State.Pot, winners); err != nil {
		return err
	}

	g.State.Pot = 0
	g.State.PotClaimed = true
	g.State.TexasSub = TexasStartNext
	g.State.Phase = PhaseFinished
	g.touch()
	return nil
}

// rankWinners evaluates every submitted hand and returns the seats that
// tie for best, per spec.md 4.8's comparison rule.
func (g *Game) rankWinners() []*PlayerState {
	var best evaluator.Hand
	var bestPlayers []*PlayerState
	first := true

	for _, p := range g.Players {
		if p.IsFolded || !p.hasSubmittedHand {
			continue
		}
		var cards [5]evaluator.CardIndex
		for i, c := range p.submittedHand {
			cards[i] = evaluator.CardIndex(c)
		}
		h := evaluator.Evaluate(cards)
		switch {
		case first:
			best = h
			bestPlayers = []*PlayerState{p}
			first = false
		case h.Equal(best):
			bestPlayers = append(bestPlayers, p)
		case h.Less(best):
			best = h
			bestPlayers = []*PlayerState{p}
		}
	}
	return bestPlayers
}

// payoutShares splits amount across winners: share = amount/len(winners),
// remainder = amount%len(winners), with the remainder's extra chip going
// to winners in seat order starting at dealerIndex+1 (spec.md 4.9).
func (g *Game) payoutShares(amount uint64, winners []*PlayerState) error {
	n := uint64(len(winners))
	share := amount / n
	remainder := int(amount % n)

	order := g.seatOrderFrom(g.nextSeat(g.Config.DealerIndex))
	ordered := orderWinnersBySeat(winners, order)

	for i, p := range ordered {
		payout := share
		if i < remainder {
			payout++
		}
		if payout == 0 {
			continue
		}
		p.Chips += payout
		if g.Vault != nil {
			if err := g.Vault.Withdraw(context.Background(), g.Config.GameID, p.Player, payout); err != nil {
				return err
			}
		}
	}
	return nil
}

// seatOrderFrom returns the seat sequence 0..currentPlayers-1 starting at
// start and wrapping around.
func (g *Game) seatOrderFrom(start uint8) []uint8 {
	n := g.Config.CurrentPlayers
	order := make([]uint8, 0, n)
	for i := uint8(0); i < n; i++ {
		order = append(order, (start+i)%n)
	}
	return order
}

// orderWinnersBySeat sorts winners by their position in seatOrder.
func orderWinnersBySeat(winners []*PlayerState, seatOrder []uint8) []*PlayerState {
	pos := make(map[uint8]int, len(seatOrder))
	for i, s := range seatOrder {
		pos[s] = i
	}
	out := make([]*PlayerState, len(winners))
	copy(out, winners)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && pos[out[j].SeatIndex] < pos[out[j-1].SeatIndex]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
