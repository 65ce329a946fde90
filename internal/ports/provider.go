package ports

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wrenlabs/notewire/internal/domain"
)

var (
	// ErrRequestDenied is returned when the user declines a provider prompt
	// (account access, signature, network switch, transaction dispatch).
	ErrRequestDenied = errors.New("request denied by user")

	// ErrUnknownChain is returned by SwitchChain when the provider has no
	// definition for the requested chain; callers add one and retry.
	ErrUnknownChain = errors.New("chain not known to provider")

	// ErrReceiptNotFound is returned while a transaction is still unmined.
	ErrReceiptNotFound = errors.New("receipt not available yet")
)

// WalletProvider is the capability provider: the external wallet exposing
// account, signing, network-switch, and call/send primitives. The core only
// consumes this interface; implementations live in adapters.
type WalletProvider interface {
	// Accounts returns the accounts already exposed to this client, without
	// prompting. RequestAccounts may prompt the user.
	Accounts(ctx context.Context) ([]common.Address, error)
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// SignText signs a human-readable message on behalf of account using the
	// provider's personal-message scheme. RecoverSigner is the inverse.
	SignText(ctx context.Context, account common.Address, message []byte) ([]byte, error)
	RecoverSigner(message, signature []byte) (common.Address, error)

	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, def domain.ChainDefinition) error

	// CallContract performs a read-only call with the caller pinned to from.
	// The notes contract scopes every read to the caller, so from must be
	// set even for views.
	CallContract(ctx context.Context, from, to common.Address, data []byte) ([]byte, error)

	// SendTransaction dispatches a mutating call from the given account with
	// a fixed gas allowance and returns once the network accepts it.
	SendTransaction(ctx context.Context, from, to common.Address, data []byte, gasLimit uint64, value *big.Int) (common.Hash, error)

	// TransactionReceipt returns ErrReceiptNotFound until the transaction is
	// mined.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// OnAccountsChanged subscribes to external account-change notifications.
	// The returned function unsubscribes.
	OnAccountsChanged(fn func(accounts []common.Address)) (unsubscribe func())
}
