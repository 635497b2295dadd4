// Package evaluator ranks Texas Hold'em hands: the best 5-card subset of
// a 7-card hand, and the 10-way class plus tie-breakers of an exact 5-card
// hand (spec.md 4.8).
//
// Grounded on the teacher's internal/deck/evaluator.go: the 21-combination
// search over every 5-subset of 7 cards, straight/flush detection
// (including the A-2-3-4-5 wheel), and value-count tiebreak extraction are
// all carried over. The teacher's own HandRank ordering (HighCard=0 ..
// RoyalFlush=9, ascending strength) paired with "pick the minimum encoded
// rank" is self-contradictory: taken literally, the minimum of an
// ascending-strength encoding is the weakest hand. This package instead
// follows spec.md's own table, which is internally consistent: RoyalFlush
// is class 0 and beats everything, HighCard is class 9 and beats nothing,
// lower class wins, and within a class tie-breakers are compared
// lexicographically with a higher value winning.
package evaluator

import "sort"

// Class is the 10-way hand category, spec.md 4.8. Lower value is better.
type Class int

const (
	RoyalFlush Class = iota
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	Pair
	HighCard
)

// CardIndex is a canonical card position 0..51, suit = index % 4,
// rank = index/4 + 2 (2..14, where 14 is the ace), matching the teacher's
// deck.Card byte encoding.
type CardIndex uint8

// Rank returns the card's numeric rank, 2..14.
func (c CardIndex) Rank() int { return int(c)/4 + 2 }

// Suit returns the card's suit, 0..3.
func (c CardIndex) Suit() int { return int(c) % 4 }

// Hand is the result of evaluating an exact 5-card hand: its class and up
// to 5 tie-breakers, most significant first, as spec.md's table describes
// per class.
type Hand struct {
	Class       Class
	TieBreakers [5]int
}

// Less reports whether h beats other: lower class wins; within an equal
// class, tie-breakers compare lexicographically with a larger value
// winning.
func (h Hand) Less(other Hand) bool {
	if h.Class != other.Class {
		return h.Class < other.Class
	}
	for i := range h.TieBreakers {
		if h.TieBreakers[i] != other.TieBreakers[i] {
			return h.TieBreakers[i] > other.TieBreakers[i]
		}
	}
	return false
}

// Equal reports whether h and other compare as an exact tie.
func (h Hand) Equal(other Hand) bool {
	return h.Class == other.Class && h.TieBreakers == other.TieBreakers
}

// Evaluate classifies an exact 5-card hand.
func Evaluate(cards [5]CardIndex) Hand {
	ranks := make([]int, 5)
	suits := make([]int, 5)
	for i, c := range cards {
		ranks[i] = c.Rank()
		suits[i] = c.Suit()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	flush := isFlush(suits)
	straightHigh, straight := straightHighCard(ranks)
	counts, countedRanks := valueCounts(ranks)

	switch {
	case flush && straight && straightHigh == 14:
		return Hand{Class: RoyalFlush}
	case flush && straight:
		return Hand{Class: StraightFlush, TieBreakers: [5]int{straightHigh}}
	case counts[0] == 4:
		return Hand{Class: FourOfAKind, TieBreakers: [5]int{countedRanks[0], countedRanks[1]}}
	case counts[0] == 3 && counts[1] == 2:
		return Hand{Class: FullHouse, TieBreakers: [5]int{countedRanks[0], countedRanks[1]}}
	case flush:
		var tb [5]int
		copy(tb[:], ranks)
		return Hand{Class: Flush, TieBreakers: tb}
	case straight:
		return Hand{Class: Straight, TieBreakers: [5]int{straightHigh}}
	case counts[0] == 3:
		return Hand{Class: ThreeOfAKind, TieBreakers: [5]int{countedRanks[0], countedRanks[1], countedRanks[2]}}
	case counts[0] == 2 && counts[1] == 2:
		return Hand{Class: TwoPair, TieBreakers: [5]int{countedRanks[0], countedRanks[1], countedRanks[2]}}
	case counts[0] == 2:
		return Hand{Class: Pair, TieBreakers: [5]int{countedRanks[0], countedRanks[1], countedRanks[2], countedRanks[3]}}
	default:
		var tb [5]int
		copy(tb[:], ranks)
		return Hand{Class: HighCard, TieBreakers: tb}
	}
}

func isFlush(suits []int) bool {
	for _, s := range suits {
		if s != suits[0] {
			return false
		}
	}
	return true
}

// straightHighCard reports the straight's high card and whether ranks
// (sorted descending, possibly with the A-2-3-4-5 wheel) form a straight.
// The wheel's high card is 5, per spec.md 4.8 ("A-low = 5").
func straightHighCard(ranksDesc []int) (int, bool) {
	distinct := make([]int, 0, 5)
	seen := map[int]bool{}
	for _, r := range ranksDesc {
		if !seen[r] {
			seen[r] = true
			distinct = append(distinct, r)
		}
	}
	if len(distinct) != 5 {
		return 0, false
	}
	if distinct[0]-distinct[4] == 4 {
		return distinct[0], true
	}
	if distinct[0] == 14 && distinct[1] == 5 && distinct[2] == 4 && distinct[3] == 3 && distinct[4] == 2 {
		return 5, true
	}
	return 0, false
}

// valueCounts returns, in descending order, the multiplicities present in
// ranksDesc and the rank associated with each multiplicity (ties broken by
// higher rank first), e.g. for a full house AAAKK: counts=[3,2],
// ranks=[14,13].
func valueCounts(ranksDesc []int) ([]int, []int) {
	freq := map[int]int{}
	for _, r := range ranksDesc {
		freq[r]++
	}
	type pair struct{ rank, count int }
	pairs := make([]pair, 0, len(freq))
	for r, c := range freq {
		pairs = append(pairs, pair{r, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].rank > pairs[j].rank
	})
	counts := make([]int, len(pairs))
	ranks := make([]int, len(pairs))
	for i, p := range pairs {
		counts[i] = p.count
		ranks[i] = p.rank
	}
	return counts, ranks
}

// SelectBest5 searches all 21 5-subsets of a 7-card hand and returns the
// best one and its evaluated Hand, per spec.md's testable property 3.
func SelectBest5(cards [7]CardIndex) ([5]CardIndex, Hand) {
	var bestCombo [5]CardIndex
	var best Hand
	first := true

	forEachCombination(cards, func(combo [5]CardIndex) {
		h := Evaluate(combo)
		if first || h.Less(best) {
			best = h
			bestCombo = combo
			first = false
		}
	})
	return bestCombo, best
}

// forEachCombination invokes fn once per 5-element subset of cards,
// preserving relative order, mirroring the teacher's generateCombinations.
func forEachCombination(cards [7]CardIndex, fn func([5]CardIndex)) {
	var combo [5]CardIndex
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == 5 {
			fn(combo)
			return
		}
		for i := start; i < len(cards); i++ {
			combo[depth] = cards[i]
			choose(i+1, depth+1)
		}
	}
	choose(0, 0)
}
