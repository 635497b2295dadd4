package vault

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestMemoryVaultDepositWithdraw(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()
	var game [32]byte
	game[0] = 1
	who := common.HexToAddress("0x11111111111111111111111111111111111111")

	if err := v.Deposit(ctx, game, who, 1000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := v.Balance(game, who); got != 1000 {
		t.Fatalf("expected balance 1000, got %d", got)
	}

	if err := v.Withdraw(ctx, game, who, 400); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := v.Balance(game, who); got != 600 {
		t.Fatalf("expected balance 600, got %d", got)
	}
}

func TestMemoryVaultWithdrawInsufficient(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()
	var game [32]byte
	who := common.HexToAddress("0x22222222222222222222222222222222222222")

	if err := v.Withdraw(ctx, game, who, 1); err != ErrInsufficientVaultBalance {
		t.Fatalf("expected ErrInsufficientVaultBalance, got %v", err)
	}
}

func TestVaultsAreIndependentPerGame(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()
	who := common.HexToAddress("0x3333333333333333333333333333333333333a")

	var gameA, gameB [32]byte
	gameA[0] = 0xAA
	gameB[0] = 0xBB

	_ = v.Deposit(ctx, gameA, who, 500)
	if got := v.Balance(gameB, who); got != 0 {
		t.Fatalf("expected gameB balance 0, got %d", got)
	}
}
