// Package deck names canonical card indices 0..51 for display purposes:
// the engine and evaluator packages only ever work with the index itself
// (spec.md 3/4.8), but an operator watching a hand (internal/inspect) or a
// CLI simulator (cmd/handsim) needs a human-readable card.
//
// Adapted from the teacher's internal/deck/card.go: same Suit/rank split
// and byte encoding (suit = index%4, rank = index/4+2), trimmed to the
// naming surface this repository actually uses — the teacher's
// encryption-oriented helpers (ToBytes, IsValid, Compare) belonged to its
// own RSA-modexp card representation, which this repository's BN254 point
// encoding replaced (see internal/curve, internal/shuffle).
package deck

import "fmt"

// Suit is one of the four suits, in the teacher's fixed order.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// SuitOf returns the suit of a canonical card index 0..51.
func SuitOf(index uint8) Suit { return Suit(index % 4) }

// RankOf returns the numeric rank of a canonical card index, 2..14 (14 is
// the ace), matching evaluator.CardIndex.Rank.
func RankOf(index uint8) int { return int(index)/4 + 2 }

// rankShort and rankLong give a card's rank as a short ("A","K",...,"2")
// or long ("Ace","King",...) label.
func rankShort(rank int) string {
	switch rank {
	case 14:
		return "A"
	case 13:
		return "K"
	case 12:
		return "Q"
	case 11:
		return "J"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

func rankLong(rank int) string {
	switch rank {
	case 14:
		return "Ace"
	case 13:
		return "King"
	case 12:
		return "Queen"
	case 11:
		return "Jack"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// Short renders a canonical card index as e.g. "A♠" or "10♥".
func Short(index uint8) string {
	return rankShort(RankOf(index)) + SuitOf(index).Symbol()
}

// FullName renders a canonical card index as e.g. "Ace of Spades".
func FullName(index uint8) string {
	return rankLong(RankOf(index)) + " of " + SuitOf(index).String()
}
