package engine

import (
	"github.com/RedPaladin7/onchainholdem/internal/vault"
	"github.com/RedPaladin7/onchainholdem/internal/wire"
)

// Dispatch decodes payload per the discriminator's fixed wire layout
// (internal/wire, spec.md 6) and invokes the matching Game method,
// grounded on the teacher's actions.go HandlePlayerAction jump table
// ("a single exhaustive switch over the action kind") generalized from
// the teacher's small JSON-tagged action set to the full 19-op wire
// discriminator space (spec.md 9's design note).
func (g *Game) Dispatch(op wire.Discriminator, who Identity, payload []byte) error {
	switch op {
	case wire.OpJoinGame:
		p, err := wire.DecodeJoinGame(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.JoinGame(who, p.Commitment, p.DepositAmount)

	case wire.OpGenerate:
		p, err := wire.DecodeGenerate(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.Generate(who, p.ShuffleSeed)

	case wire.OpDraw:
		return g.Draw(who)

	case wire.OpRevealCard:
		p, err := wire.DecodeRevealCard(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.RevealCard(who, p.InvKey, p.CardIndex)

	case wire.OpPlaceBlind:
		p, err := wire.DecodePlaceBlind(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.PlaceBlind(who, p.Amount)

	case wire.OpBet:
		p, err := wire.DecodeBet(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.Bet(who, p.Amount)

	case wire.OpFold:
		return g.Fold(who)

	case wire.OpDealCommunityCard:
		return g.DealCommunityCard(who)

	case wire.OpOpenCommunityCard:
		p, err := wire.DecodeOpenCommunityCard(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.OpenCommunityCard(who, p.InvKey, p.CardIndex)

	case wire.OpOpenCard:
		p, err := wire.DecodeOpenCard(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.OpenCard(who, p.InvKey, p.CardIndex)

	case wire.OpSubmitBestHand:
		p, err := wire.DecodeSubmitBestHand(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		return g.SubmitBestHand(who, p.Points)

	case wire.OpClaimPot:
		return g.ClaimPot(who)

	case wire.OpStartNextGame:
		return g.StartNextGame(who)

	case wire.OpLeave:
		return g.Leave(who)

	case wire.OpSlash:
		return g.Slash(who)

	case wire.OpCloseGame:
		return g.CloseGame(who)

	case wire.OpShufflePart1, wire.OpShufflePart2:
		p, err := wire.DecodeShufflePart(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		if op == wire.OpShufflePart1 {
			return g.ShufflePart1(who, p.Flatten())
		}
		return g.ShufflePart2(who, p.Flatten())

	case wire.OpLockPart1, wire.OpLockPart2:
		p, err := wire.DecodeLockPart(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		if op == wire.OpLockPart1 {
			return g.LockPart1(who, p.Flatten())
		}
		return g.LockPart2(who, p.Flatten())

	case wire.OpMapDeckPart1, wire.OpMapDeckPart2:
		p, err := wire.DecodeMapDeckPart(payload)
		if err != nil {
			return errInvalidInstruction(err.Error())
		}
		if op == wire.OpMapDeckPart1 {
			return g.MapDeckPart1(who, p.Flatten())
		}
		return g.MapDeckPart2(who, p.Flatten())

	default:
		return errInvalidInstruction("unknown discriminator")
	}
}

// DispatchInitializeGame handles discriminator 0 separately: unlike every
// other operation it constructs a new Game rather than mutating an
// existing one.
func DispatchInitializeGame(payload []byte, authority Identity, timeoutSeconds uint32,
	slashPercentage uint8, v vault.Vault, nowFn func() int64) (*Game, error) {
	p, err := wire.DecodeInitializeGame(payload)
	if err != nil {
		return nil, errInvalidInstruction(err.Error())
	}
	return NewGame(p.GameID, authority, p.MaxPlayers, p.SmallBlind, p.MinBuyIn, timeoutSeconds, slashPercentage, v, nowFn)
}
