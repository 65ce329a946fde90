package application

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

// fakeProvider signs by echoing the account bytes, so RecoverSigner stays
// correct even when a nested account change interleaves two authentications.
type fakeProvider struct {
	accounts []common.Address

	requestAccountsFn func(ctx context.Context) ([]common.Address, error)
	signTextFn        func(ctx context.Context, account common.Address, message []byte) ([]byte, error)
	recoverSignerFn   func(message, signature []byte) (common.Address, error)
	switchChainFn     func(ctx context.Context, chainID uint64) error
	addChainFn        func(ctx context.Context, def domain.ChainDefinition) error
}

func (p *fakeProvider) Accounts(_ context.Context) ([]common.Address, error) {
	return p.accounts, nil
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if p.requestAccountsFn != nil {
		return p.requestAccountsFn(ctx)
	}
	return p.accounts, nil
}

func (p *fakeProvider) SignText(ctx context.Context, account common.Address, message []byte) ([]byte, error) {
	if p.signTextFn != nil {
		return p.signTextFn(ctx, account, message)
	}
	return account.Bytes(), nil
}

func (p *fakeProvider) RecoverSigner(message, signature []byte) (common.Address, error) {
	if p.recoverSignerFn != nil {
		return p.recoverSignerFn(message, signature)
	}
	return common.BytesToAddress(signature), nil
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainID uint64) error {
	if p.switchChainFn != nil {
		return p.switchChainFn(ctx, chainID)
	}
	return nil
}

func (p *fakeProvider) AddChain(ctx context.Context, def domain.ChainDefinition) error {
	if p.addChainFn != nil {
		return p.addChainFn(ctx, def)
	}
	return nil
}

func (p *fakeProvider) CallContract(_ context.Context, _, _ common.Address, _ []byte) ([]byte, error) {
	return nil, nil
}

func (p *fakeProvider) SendTransaction(_ context.Context, _, _ common.Address, _ []byte, _ uint64, _ *big.Int) (common.Hash, error) {
	return common.Hash{}, nil
}

func (p *fakeProvider) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	return nil, ports.ErrReceiptNotFound
}

func (p *fakeProvider) OnAccountsChanged(_ func(accounts []common.Address)) func() {
	return func() {}
}

type fakePendingTx struct {
	hash   common.Hash
	waitFn func(ctx context.Context) (ports.Receipt, error)
}

func (t *fakePendingTx) Hash() common.Hash {
	return t.hash
}

func (t *fakePendingTx) Wait(ctx context.Context) (ports.Receipt, error) {
	return t.waitFn(ctx)
}

// confirmedTx resolves immediately with a successful receipt.
func confirmedTx(hash common.Hash, createdID *uint64) *fakePendingTx {
	return &fakePendingTx{
		hash: hash,
		waitFn: func(_ context.Context) (ports.Receipt, error) {
			return ports.Receipt{TxHash: hash, Succeeded: true, CreatedID: createdID}, nil
		},
	}
}

type fakeContract struct {
	createNoteFn   func(ctx context.Context, from common.Address, title, content string) (ports.PendingTx, error)
	updateNoteFn   func(ctx context.Context, from common.Address, id uint64, title, content string) (ports.PendingTx, error)
	deleteNoteFn   func(ctx context.Context, from common.Address, id uint64) (ports.PendingTx, error)
	getNoteFn      func(ctx context.Context, from common.Address, id uint64) (domain.Note, error)
	getNotesListFn func(ctx context.Context, from common.Address) ([]domain.NoteSummary, error)
	getNoteCountFn func(ctx context.Context, from common.Address) (uint64, error)
	encryptNoteFn  func(ctx context.Context, from common.Address, content string) ([]byte, error)
	encryptAddrFn  func(ctx context.Context, from common.Address) (common.Address, error)
}

func (c *fakeContract) CreateNote(ctx context.Context, from common.Address, title, content string) (ports.PendingTx, error) {
	return c.createNoteFn(ctx, from, title, content)
}

func (c *fakeContract) UpdateNote(ctx context.Context, from common.Address, id uint64, title, content string) (ports.PendingTx, error) {
	return c.updateNoteFn(ctx, from, id, title, content)
}

func (c *fakeContract) DeleteNote(ctx context.Context, from common.Address, id uint64) (ports.PendingTx, error) {
	return c.deleteNoteFn(ctx, from, id)
}

func (c *fakeContract) GetNote(ctx context.Context, from common.Address, id uint64) (domain.Note, error) {
	return c.getNoteFn(ctx, from, id)
}

func (c *fakeContract) GetNotesList(ctx context.Context, from common.Address) ([]domain.NoteSummary, error) {
	if c.getNotesListFn != nil {
		return c.getNotesListFn(ctx, from)
	}
	return nil, nil
}

func (c *fakeContract) GetNoteCount(ctx context.Context, from common.Address) (uint64, error) {
	return c.getNoteCountFn(ctx, from)
}

func (c *fakeContract) EncryptNote(ctx context.Context, from common.Address, content string) ([]byte, error) {
	return c.encryptNoteFn(ctx, from, content)
}

func (c *fakeContract) EncryptionAddress(ctx context.Context, from common.Address) (common.Address, error) {
	return c.encryptAddrFn(ctx, from)
}

var testChain = domain.ChainDefinition{
	ChainID:  20993,
	Name:     "Fluent Devnet",
	RPCURL:   "http://localhost:8545",
	Currency: "ETH",
}

func accountA() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}
func accountB() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000bb")
}
func accountC() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000cc")
}
