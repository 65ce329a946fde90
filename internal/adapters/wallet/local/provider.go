// Package local implements the wallet capability provider with a local
// secp256k1 key and a JSON-RPC endpoint. It stands in for a browser wallet:
// same primitives, no prompts.
package local

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

type Provider struct {
	logger *slog.Logger

	mu          sync.Mutex
	key         *ecdsa.PrivateKey
	address     common.Address
	client      *ethclient.Client
	activeChain uint64
	known       map[uint64]domain.ChainDefinition
	subs        map[int]func([]common.Address)
	nextSub     int
}

var _ ports.WalletProvider = (*Provider)(nil)

// NewProvider builds a provider around one private key in hex form. Chains
// must still be added and switched to before any call or send works.
func NewProvider(keyHex string) (*Provider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(keyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return &Provider{
		logger:  slog.Default(),
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		known:   map[uint64]domain.ChainDefinition{},
		subs:    map[int]func([]common.Address){},
	}, nil
}

func (p *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == nil {
		return nil, nil
	}
	return []common.Address{p.address}, nil
}

func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return p.Accounts(ctx)
}

// UseKey swaps the active key and notifies account-change subscribers, the
// way a browser wallet reports the user picking a different account.
func (p *Provider) UseKey(keyHex string) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(keyHex), "0x"))
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}

	p.mu.Lock()
	p.key = key
	p.address = crypto.PubkeyToAddress(key.PublicKey)
	address := p.address
	subs := make([]func([]common.Address), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn([]common.Address{address})
	}
	return nil
}

func (p *Provider) SignText(ctx context.Context, account common.Address, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	key := p.key
	address := p.address
	p.mu.Unlock()

	if key == nil || account != address {
		return nil, fmt.Errorf("account %s not held by this wallet: %w", account.Hex(), ports.ErrRequestDenied)
	}

	signature, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	// personal_sign recovery id convention.
	signature[crypto.RecoveryIDOffset] += 27
	return signature, nil
}

func (p *Provider) RecoverSigner(message, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func (p *Provider) AddChain(ctx context.Context, def domain.ChainDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.known[def.ChainID] = def
	p.mu.Unlock()
	return nil
}

func (p *Provider) SwitchChain(ctx context.Context, chainID uint64) error {
	p.mu.Lock()
	def, ok := p.known[chainID]
	p.mu.Unlock()
	if !ok {
		return ports.ErrUnknownChain
	}

	client, err := ethclient.DialContext(ctx, def.RPCURL)
	if err != nil {
		return fmt.Errorf("dial %s: %w", def.RPCURL, err)
	}

	p.mu.Lock()
	if p.client != nil {
		p.client.Close()
	}
	p.client = client
	p.activeChain = chainID
	p.mu.Unlock()

	p.logger.Debug("switched chain", "chain", chainID, "rpc", def.RPCURL)
	return nil
}

func (p *Provider) CallContract(ctx context.Context, from, to common.Address, data []byte) ([]byte, error) {
	client, _, err := p.connection()
	if err != nil {
		return nil, err
	}

	return client.CallContract(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: data,
	}, nil)
}

func (p *Provider) SendTransaction(ctx context.Context, from, to common.Address, data []byte, gasLimit uint64, value *big.Int) (common.Hash, error) {
	client, chainID, err := p.connection()
	if err != nil {
		return common.Hash{}, err
	}

	p.mu.Lock()
	key := p.key
	address := p.address
	p.mu.Unlock()
	if key == nil || from != address {
		return common.Hash{}, fmt.Errorf("account %s not held by this wallet: %w", from.Hex(), ports.ErrRequestDenied)
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch gas price: %w", err)
	}
	if value == nil {
		value = new(big.Int)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	p.logger.Debug("transaction dispatched", "tx", signed.Hash().Hex(), "nonce", nonce, "gas", gasLimit)
	return signed.Hash(), nil
}

func (p *Provider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	client, _, err := p.connection()
	if err != nil {
		return nil, err
	}

	receipt, err := client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ports.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("fetch receipt %s: %w", hash.Hex(), err)
	}
	return receipt, nil
}

func (p *Provider) OnAccountsChanged(fn func(accounts []common.Address)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Provider) connection() (*ethclient.Client, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil, nil, fmt.Errorf("no active chain: switch to a known chain first")
	}
	return p.client, new(big.Int).SetUint64(p.activeChain), nil
}
