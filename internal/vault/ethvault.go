package vault

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// weiPerChip is the exchange rate EthVault uses between the engine's
// uint64 chip amounts and on-chain wei value. A real deployment would
// make this a GameConfig-level parameter; it is fixed here since the
// spec's chip unit is opaque to the core.
var weiPerChip = big.NewInt(1e12)

// EthVault is a Vault backed by a real chain, adapted from the teacher's
// internal/blockchain.BlockchainClient: connection setup, transactor
// construction, and SendTransaction/WaitForTransaction are carried over
// almost verbatim, repointed at a single escrow address per game rather
// than at generated contract bindings (this core has no on-chain program
// of its own to bind against; it is a library other infrastructure hosts).
type EthVault struct {
	client        *ethclient.Client
	chainID       *big.Int
	privateKey    *ecdsa.PrivateKey
	publicAddress common.Address
	escrowAddress common.Address
}

// EthVaultConfig mirrors the teacher's blockchain.Config, trimmed to what
// a single escrow-address vault needs.
type EthVaultConfig struct {
	RPCURL        string
	PrivateKey    string
	EscrowAddress string
}

// NewEthVault dials the configured RPC endpoint and derives the signing
// wallet from the supplied private key, exactly as
// blockchain.NewBlockchainClient does.
func NewEthVault(cfg *EthVaultConfig) (*EthVault, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to blockchain: %w", err)
	}

	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast public key to ECDSA")
	}

	v := &EthVault{
		client:        client,
		chainID:       chainID,
		privateKey:    privateKey,
		publicAddress: crypto.PubkeyToAddress(*publicKeyECDSA),
		escrowAddress: common.HexToAddress(cfg.EscrowAddress),
	}

	logrus.WithFields(logrus.Fields{
		"address":  v.publicAddress.Hex(),
		"chain_id": chainID.String(),
	}).Info("vault: eth-backed vault initialized")

	return v, nil
}

func chipsToWei(amount uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(amount), weiPerChip)
}

// Deposit implements Vault by sending amount (converted to wei) from the
// vault's hot wallet into the escrow address, tagged with the game id and
// player identity as call data — the teacher's SendTransaction with a data
// payload standing in for a contract call this core does not itself
// define.
func (v *EthVault) Deposit(ctx context.Context, gameID [32]byte, who Identity, amount uint64) error {
	data := append(append([]byte{}, gameID[:]...), who.Bytes()...)
	_, err := v.sendTransaction(ctx, v.escrowAddress, chipsToWei(amount), data)
	return err
}

// Withdraw implements Vault by paying amount out to who's external
// address.
func (v *EthVault) Withdraw(ctx context.Context, gameID [32]byte, who Identity, amount uint64) error {
	data := append(append([]byte{}, gameID[:]...), who.Bytes()...)
	_, err := v.sendTransaction(ctx, who, chipsToWei(amount), data)
	return err
}

// Balance reports the escrow address's on-chain wei balance converted
// back to chips; EthVault does not keep a separate per-player ledger the
// way MemoryVault does, since the chain itself is the ledger.
func (v *EthVault) Balance(_ [32]byte, _ Identity) uint64 {
	balance, err := v.client.BalanceAt(context.Background(), v.escrowAddress, nil)
	if err != nil {
		return 0
	}
	return new(big.Int).Div(balance, weiPerChip).Uint64()
}

func (v *EthVault) sendTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	nonce, err := v.client.PendingNonceAt(ctx, v.publicAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := v.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := uint64(21000)
	if len(data) > 0 {
		gasLimit = uint64(100000)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(v.chainID), v.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := v.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"tx_hash": signedTx.Hash().Hex(),
		"to":      to.Hex(),
		"value":   value.String(),
	}).Info("vault: transaction sent")

	return signedTx, v.waitForTransaction(ctx, signedTx.Hash(), 2*time.Minute)
}

func (v *EthVault) waitForTransaction(ctx context.Context, txHash common.Hash, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for transaction")
		case <-ticker.C:
			receipt, err := v.client.TransactionReceipt(ctx, txHash)
			if err != nil {
				continue
			}
			if receipt.Status == types.ReceiptStatusSuccessful {
				return nil
			}
			return fmt.Errorf("transaction failed")
		}
	}
}

// Close releases the underlying RPC connection.
func (v *EthVault) Close() {
	if v.client != nil {
		v.client.Close()
	}
}
