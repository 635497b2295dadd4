package evaluator

import "testing"

// card builds a CardIndex from rank (2..14) and suit (0..3).
func card(rank, suit int) CardIndex {
	return CardIndex((rank-2)*4 + suit)
}

func TestRoyalFlushBeatsEverything(t *testing.T) {
	royal := Evaluate([5]CardIndex{card(14, 0), card(13, 0), card(12, 0), card(11, 0), card(10, 0)})
	quad := Evaluate([5]CardIndex{card(9, 0), card(9, 1), card(9, 2), card(9, 3), card(2, 0)})

	if royal.Class != RoyalFlush {
		t.Fatalf("expected RoyalFlush, got %v", royal.Class)
	}
	if !royal.Less(quad) {
		t.Fatalf("royal flush should beat four of a kind")
	}
}

func TestWheelStraightRanksBelowSixHigh(t *testing.T) {
	wheel := Evaluate([5]CardIndex{card(14, 0), card(2, 1), card(3, 2), card(4, 3), card(5, 0)})
	sixHigh := Evaluate([5]CardIndex{card(6, 0), card(5, 1), card(4, 2), card(3, 3), card(2, 0)})

	if wheel.Class != Straight || sixHigh.Class != Straight {
		t.Fatalf("expected both hands to be straights, got %v and %v", wheel.Class, sixHigh.Class)
	}
	if wheel.TieBreakers[0] != 5 {
		t.Fatalf("expected wheel high card 5, got %d", wheel.TieBreakers[0])
	}
	if !sixHigh.Less(wheel) {
		t.Fatalf("six-high straight should beat the wheel")
	}

	highCard := Evaluate([5]CardIndex{card(14, 0), card(9, 1), card(7, 2), card(4, 3), card(2, 0)})
	if !wheel.Less(highCard) {
		t.Fatalf("wheel straight should beat high card")
	}
}

func TestFullHouseTieBreakOnTripsThenPair(t *testing.T) {
	acesOverKings := Evaluate([5]CardIndex{card(14, 0), card(14, 1), card(14, 2), card(13, 0), card(13, 1)})
	kingsOverAces := Evaluate([5]CardIndex{card(13, 0), card(13, 1), card(13, 2), card(14, 0), card(14, 1)})

	if acesOverKings.Class != FullHouse || kingsOverAces.Class != FullHouse {
		t.Fatalf("expected full houses")
	}
	if !acesOverKings.Less(kingsOverAces) {
		t.Fatalf("aces-over-kings should beat kings-over-aces")
	}
}

func TestSelectBest5PicksStrongestOfSeven(t *testing.T) {
	seven := [7]CardIndex{
		card(14, 0), card(13, 0), card(12, 0), card(11, 0), card(10, 0), // royal flush in hearts
		card(2, 1), card(3, 2),
	}
	combo, hand := SelectBest5(seven)
	if hand.Class != RoyalFlush {
		t.Fatalf("expected RoyalFlush from best-of-7, got %v", hand.Class)
	}
	seen := map[CardIndex]bool{}
	for _, c := range combo {
		if seen[c] {
			t.Fatalf("duplicate card in selected combo")
		}
		seen[c] = true
	}
}

func TestEqualHandsCompareEqual(t *testing.T) {
	a := Evaluate([5]CardIndex{card(10, 0), card(9, 1), card(7, 2), card(4, 3), card(2, 0)})
	b := Evaluate([5]CardIndex{card(10, 1), card(9, 0), card(7, 3), card(4, 2), card(2, 1)})
	if !a.Equal(b) {
		t.Fatalf("expected equivalent high-card hands to compare equal, got %+v vs %+v", a, b)
	}
	if a.Less(b) || b.Less(a) {
		t.Fatalf("equal hands must not report Less either direction")
	}
}
