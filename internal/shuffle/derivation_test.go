package shuffle

import "testing"

func TestCommitmentBinding(t *testing.T) {
	var seedA, seedB [32]byte
	seedA[0] = 0xAA
	seedB[0] = 0xBB

	if Commitment(seedA) == Commitment(seedB) {
		t.Fatalf("distinct seeds produced equal commitments")
	}
	if Commitment(seedA) != Commitment(seedA) {
		t.Fatalf("commitment not deterministic")
	}
}

func TestDeriveValuesAllDistinctSlots(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x01

	values := DeriveValues(seed)
	seen := map[string]bool{}
	for _, v := range values {
		s := v.String()
		if seen[s] {
			t.Fatalf("duplicate derived value across slots")
		}
		seen[s] = true
	}
}

func TestAccumulatorAggregatesAcrossPlayers(t *testing.T) {
	var seedA, seedB [32]byte
	seedA[0] = 0x01
	seedB[0] = 0x02

	acc := NewAccumulator()
	acc.Add(seedA)
	acc.Add(seedB)

	solo := NewAccumulator()
	solo.Add(seedA)

	if acc.Slots[0].Cmp(solo.Slots[0]) == 0 {
		t.Fatalf("expected aggregation to change slot 0")
	}

	if _, err := acc.OriginalPoints(); err != nil {
		t.Fatalf("original points: %v", err)
	}
}
