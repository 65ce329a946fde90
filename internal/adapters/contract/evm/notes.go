// Package evm translates the NotesContract port onto the wallet provider's
// call/send primitives using the contract's solidity ABI.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

// DefaultGasAllowance is a generous fixed upper bound sent with every
// mutating call. Pre-flight gas estimation on the target chain fails in ways
// that mask real contract errors, so dispatch never estimates.
const DefaultGasAllowance uint64 = 3_000_000

const defaultPollInterval = 2 * time.Second

const notesABI = `[
  {"type":"function","name":"createNote","stateMutability":"nonpayable","inputs":[{"name":"title","type":"string"},{"name":"content","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateNote","stateMutability":"nonpayable","inputs":[{"name":"noteId","type":"uint256"},{"name":"title","type":"string"},{"name":"content","type":"string"}],"outputs":[]},
  {"type":"function","name":"deleteNote","stateMutability":"nonpayable","inputs":[{"name":"noteId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getNote","stateMutability":"view","inputs":[{"name":"noteId","type":"uint256"}],"outputs":[{"name":"title","type":"string"},{"name":"content","type":"string"},{"name":"timestamp","type":"uint256"}]},
  {"type":"function","name":"getNotesList","stateMutability":"view","inputs":[],"outputs":[{"name":"ids","type":"uint256[]"},{"name":"titles","type":"string[]"},{"name":"timestamps","type":"uint256[]"}]},
  {"type":"function","name":"getNoteCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"encryptNote","stateMutability":"view","inputs":[{"name":"content","type":"string"}],"outputs":[{"name":"","type":"bytes"}]},
  {"type":"function","name":"getEncryptionContractAddress","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

// Precomputed event signature hashes from the deployed contract.
var (
	TopicNoteCreated = common.HexToHash("0xa56376160d28d2b90a0746c49caba732b47670e9d51bc39e431f4a6d861a0f9d")
	TopicNoteUpdated = common.HexToHash("0x9b8718329ee8d934e3cb45c98518ea81c6ec5ea3b11dd77b3253e59e67c05c8a")
	TopicNoteDeleted = common.HexToHash("0x95a323c3169ce1b212d95454f314a7ef7dd48dc5748be2c66b0a52d102f280c4")
)

type Notes struct {
	provider     ports.WalletProvider
	address      common.Address
	abi          abi.ABI
	gasLimit     uint64
	pollInterval time.Duration
}

var _ ports.NotesContract = (*Notes)(nil)

func NewNotes(provider ports.WalletProvider, address common.Address) (*Notes, error) {
	parsed, err := abi.JSON(strings.NewReader(notesABI))
	if err != nil {
		return nil, fmt.Errorf("parse notes abi: %w", err)
	}

	return &Notes{
		provider:     provider,
		address:      address,
		abi:          parsed,
		gasLimit:     DefaultGasAllowance,
		pollInterval: defaultPollInterval,
	}, nil
}

// SetPollInterval overrides how often Wait polls for a receipt.
func (n *Notes) SetPollInterval(interval time.Duration) {
	n.pollInterval = interval
}

func (n *Notes) CreateNote(ctx context.Context, from common.Address, title, content string) (ports.PendingTx, error) {
	return n.send(ctx, from, "createNote", title, content)
}

func (n *Notes) UpdateNote(ctx context.Context, from common.Address, id uint64, title, content string) (ports.PendingTx, error) {
	return n.send(ctx, from, "updateNote", new(big.Int).SetUint64(id), title, content)
}

func (n *Notes) DeleteNote(ctx context.Context, from common.Address, id uint64) (ports.PendingTx, error) {
	return n.send(ctx, from, "deleteNote", new(big.Int).SetUint64(id))
}

func (n *Notes) GetNote(ctx context.Context, from common.Address, id uint64) (domain.Note, error) {
	out, err := n.call(ctx, from, "getNote", new(big.Int).SetUint64(id))
	if err != nil {
		return domain.Note{}, err
	}

	title, okT := out[0].(string)
	content, okC := out[1].(string)
	timestamp, okS := out[2].(*big.Int)
	if !okT || !okC || !okS {
		return domain.Note{}, fmt.Errorf("getNote: unexpected output shape")
	}

	// The contract answers a miss with an empty title and a zero timestamp
	// instead of reverting.
	if title == "" && timestamp.Sign() == 0 {
		return domain.Note{}, domain.ErrNoteNotFound
	}

	return domain.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		UpdatedAt: time.Unix(int64(timestamp.Uint64()), 0).UTC(),
	}, nil
}

func (n *Notes) GetNotesList(ctx context.Context, from common.Address) ([]domain.NoteSummary, error) {
	out, err := n.call(ctx, from, "getNotesList")
	if err != nil {
		return nil, err
	}

	ids, okI := out[0].([]*big.Int)
	titles, okT := out[1].([]string)
	timestamps, okS := out[2].([]*big.Int)
	if !okI || !okT || !okS {
		return nil, fmt.Errorf("getNotesList: unexpected output shape")
	}
	if len(ids) != len(titles) || len(ids) != len(timestamps) {
		return nil, fmt.Errorf("getNotesList: parallel arrays of different lengths (%d ids, %d titles, %d timestamps)", len(ids), len(titles), len(timestamps))
	}

	summaries := make([]domain.NoteSummary, 0, len(ids))
	for i := range ids {
		summaries = append(summaries, domain.NoteSummary{
			ID:        ids[i].Uint64(),
			Title:     titles[i],
			UpdatedAt: time.Unix(int64(timestamps[i].Uint64()), 0).UTC(),
		})
	}
	return summaries, nil
}

func (n *Notes) GetNoteCount(ctx context.Context, from common.Address) (uint64, error) {
	out, err := n.call(ctx, from, "getNoteCount")
	if err != nil {
		return 0, err
	}

	count, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("getNoteCount: unexpected output shape")
	}
	return count.Uint64(), nil
}

func (n *Notes) EncryptNote(ctx context.Context, from common.Address, content string) ([]byte, error) {
	out, err := n.call(ctx, from, "encryptNote", content)
	if err != nil {
		return nil, err
	}

	encrypted, ok := out[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("encryptNote: unexpected output shape")
	}
	return encrypted, nil
}

func (n *Notes) EncryptionAddress(ctx context.Context, from common.Address) (common.Address, error) {
	out, err := n.call(ctx, from, "getEncryptionContractAddress")
	if err != nil {
		return common.Address{}, err
	}

	address, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("getEncryptionContractAddress: unexpected output shape")
	}
	return address, nil
}

// call performs a caller-pinned read. The contract scopes every view to the
// caller, so from travels on the call even though no state changes.
func (n *Notes) call(ctx context.Context, from common.Address, method string, args ...any) ([]any, error) {
	data, err := n.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	ret, err := n.provider.CallContract(ctx, from, n.address, data)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := n.abi.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

func (n *Notes) send(ctx context.Context, from common.Address, method string, args ...any) (ports.PendingTx, error) {
	data, err := n.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	hash, err := n.provider.SendTransaction(ctx, from, n.address, data, n.gasLimit, nil)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	return &pendingTx{notes: n, hash: hash}, nil
}

type pendingTx struct {
	notes *Notes
	hash  common.Hash
}

func (t *pendingTx) Hash() common.Hash {
	return t.hash
}

// Wait polls until the transaction is mined or ctx is cancelled. No client
// timeout: confirmation time is the network's to decide.
func (t *pendingTx) Wait(ctx context.Context) (ports.Receipt, error) {
	ticker := time.NewTicker(t.notes.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := t.notes.provider.TransactionReceipt(ctx, t.hash)
		if err == nil {
			return t.notes.toReceipt(receipt), nil
		}
		if !errors.Is(err, ports.ErrReceiptNotFound) {
			return ports.Receipt{}, err
		}

		select {
		case <-ctx.Done():
			return ports.Receipt{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (n *Notes) toReceipt(receipt *types.Receipt) ports.Receipt {
	return ports.Receipt{
		TxHash:    receipt.TxHash,
		Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
		CreatedID: n.createdID(receipt.Logs),
		GasUsed:   receipt.GasUsed,
	}
}

// createdID recovers the contract-assigned note id from a NoteCreated log.
// Extraction is best-effort: a receipt without a parseable event yields nil.
func (n *Notes) createdID(logs []*types.Log) *uint64 {
	for _, entry := range logs {
		if entry == nil || entry.Address != n.address {
			continue
		}
		if len(entry.Topics) < 3 || entry.Topics[0] != TopicNoteCreated {
			continue
		}
		id := new(big.Int).SetBytes(entry.Topics[2].Bytes()).Uint64()
		return &id
	}
	return nil
}
