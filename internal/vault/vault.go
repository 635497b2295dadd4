// Package vault implements the abstract "vault deposit / vault withdraw"
// primitives spec.md treats as external collaborators (spec.md 1, 5):
// moving chips between a player's external token account and a game's
// escrow balance. PotClaim calls Withdraw; JoinGame calls Deposit. Slash
// only moves chips between players' in-game balances and does not call
// the vault.
//
// Grounded on the teacher's internal/blockchain package: Wallet,
// transaction submission/waiting, and balance verification are adapted
// here into a Vault interface with a real go-ethereum-backed
// implementation (EthVault) and an in-memory one (MemoryVault) used when
// no chain is configured and throughout the test suite.
package vault

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientVaultBalance is returned by Withdraw when the vault's
// recorded balance for an identity is less than the requested amount.
var ErrInsufficientVaultBalance = errors.New("vault: insufficient balance")

// Identity addresses a vault-level account. It reuses go-ethereum's
// common.Address, the same 20-byte identity type the teacher's wallet and
// blockchain client use throughout.
type Identity = common.Address

// Vault is the abstract deposit/withdraw boundary. A real deployment backs
// this with on-chain token transfers (EthVault); tests and
// non-chain-backed operation use MemoryVault.
type Vault interface {
	// Deposit moves amount from the external identity into the named
	// game's escrow balance for that identity.
	Deposit(ctx context.Context, gameID [32]byte, who Identity, amount uint64) error
	// Withdraw pays amount out of the named game's escrow balance for
	// who, to who's external account.
	Withdraw(ctx context.Context, gameID [32]byte, who Identity, amount uint64) error
	// Balance reports the vault's current escrow record for who in gameID.
	Balance(gameID [32]byte, who Identity) uint64
}

// MemoryVault is an in-process Vault backed by a plain map, used for
// self-contained operation and by the engine's test suite. It performs the
// same bookkeeping an on-chain vault performs (balances only move via
// Deposit/Withdraw, never set directly) without requiring a chain.
type MemoryVault struct {
	mu       sync.Mutex
	balances map[[32]byte]map[Identity]uint64
}

// NewMemoryVault returns an empty MemoryVault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{balances: make(map[[32]byte]map[Identity]uint64)}
}

func (v *MemoryVault) ledger(gameID [32]byte) map[Identity]uint64 {
	l, ok := v.balances[gameID]
	if !ok {
		l = make(map[Identity]uint64)
		v.balances[gameID] = l
	}
	return l
}

// Deposit implements Vault.
func (v *MemoryVault) Deposit(_ context.Context, gameID [32]byte, who Identity, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	l := v.ledger(gameID)
	l[who] += amount
	return nil
}

// Withdraw implements Vault.
func (v *MemoryVault) Withdraw(_ context.Context, gameID [32]byte, who Identity, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	l := v.ledger(gameID)
	if l[who] < amount {
		return ErrInsufficientVaultBalance
	}
	l[who] -= amount
	return nil
}

// Balance implements Vault.
func (v *MemoryVault) Balance(gameID [32]byte, who Identity) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger(gameID)[who]
}

// WeiToEth and EthToWei are carried over verbatim from the teacher's
// blockchain.Wallet helpers and convert between wei and whole ether.
// EthVault does not use them: it converts chips to wei with chipsToWei
// and weiPerChip.
func WeiToEth(wei *big.Int) *big.Float {
	return new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
}

func EthToWei(eth *big.Float) *big.Int {
	truncInt, _ := new(big.Float).Mul(eth, big.NewFloat(1e18)).Int(nil)
	return truncInt
}
