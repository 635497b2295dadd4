package engine

import (
	"math/big"

	"github.com/RedPaladin7/onchainholdem/internal/curve"
)

// bytesToScalar interprets a 32-byte wire value as a big-endian scalar,
// the encoding every RevealCard/OpenCard/OpenCommunityCard inverse uses
// (spec.md 6).
func bytesToScalar(b [32]byte) *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// decodeUncompressedPoint parses a 64-byte [x||y] point as used by
// SubmitBestHand's 5-point payload (spec.md 6), translating curve-package
// sentinels into engine GameErrors.
func decodeUncompressedPoint(raw [64]byte) (*curve.Point, error) {
	pt, err := curve.DecodeUncompressed(raw[:])
	if err != nil {
		if err == curve.ErrPointAtInfinity {
			return nil, errPointAtInfinity()
		}
		return nil, errPointNotOnCurve()
	}
	return pt, nil
}

// findOriginalIndex looks up pt in the OriginalDeck by exact point
// equality, the canonical card-identification step every reveal path
// ends with (spec.md 4.5/4.7/4.8: "decoded point equals OriginalDeck[c]").
func (g *Game) findOriginalIndex(pt *curve.Point) (uint8, bool) {
	target := pt.Bytes()
	for i, orig := range g.Deck.Original {
		if orig != nil && orig.Bytes() == target {
			return uint8(i), true
		}
	}
	return 0, false
}
