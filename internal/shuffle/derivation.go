// Package shuffle implements ShuffleDerivation: turning a committed
// 32-byte seed into the 52 per-card scalars a Generate contribution adds
// to the accumulator, and aggregating contributions across players.
//
// Grounded on the teacher's internal/crypto package (the commit/generate
// vocabulary and per-card derivation loop come from mental_poker.go), with
// go-ethereum's crypto.Keccak256 standing in for the teacher's ad hoc
// hashing and curve.Order standing in for the teacher's hardcoded RSA
// prime as the modulus contributions are reduced against.
package shuffle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/RedPaladin7/onchainholdem/internal/curve"
)

// DeckSize is the number of cards in a standard deck, and the number of
// scalars a single seed derives.
const DeckSize = 52

// Commitment returns keccak256(seed), the value a player submits at Join
// and that Generate later checks the revealed seed against.
func Commitment(seed [32]byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(seed[:]))
}

// DeriveValues computes v_i = keccak256(seed || byte(i)) for i in
// [0, DeckSize), interpreted as a big-endian integer, for a revealed
// shuffle seed (spec.md 4.2).
func DeriveValues(seed [32]byte) [DeckSize]*big.Int {
	var out [DeckSize]*big.Int
	for i := 0; i < DeckSize; i++ {
		buf := append(append([]byte{}, seed[:]...), byte(i))
		h := crypto.Keccak256(buf)
		out[i] = new(big.Int).SetBytes(h)
	}
	return out
}

// Accumulator holds the running per-card sum of all players' derived
// shuffle values, reduced mod n at every addition.
type Accumulator struct {
	Slots [DeckSize]*big.Int
}

// NewAccumulator returns a zeroed accumulator.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	for i := range a.Slots {
		a.Slots[i] = big.NewInt(0)
	}
	return a
}

// Add folds a revealed seed's derived values into the accumulator,
// slot-wise mod n.
func (a *Accumulator) Add(seed [32]byte) {
	values := DeriveValues(seed)
	for i, v := range values {
		sum := new(big.Int).Add(a.Slots[i], v)
		a.Slots[i] = sum.Mod(sum, curve.Order)
	}
}

// OriginalPoints computes G * accumulator[i] for every slot, the canonical
// "original deck" the spec's MapDeck step submits and later showdown
// lookups match against. A slot whose accumulated scalar reduces to zero
// mod n is vanishingly unlikely with honest random seeds but is surfaced
// as an error rather than silently producing the identity point.
func (a *Accumulator) OriginalPoints() ([DeckSize]*curve.Point, error) {
	var out [DeckSize]*curve.Point
	g := curve.Generator()
	for i, s := range a.Slots {
		pt, err := curve.ScalarMul(g, s)
		if err != nil {
			return out, err
		}
		out[i] = pt
	}
	return out, nil
}
