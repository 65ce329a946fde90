package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wrenlabs/notewire/internal/domain"
)

// Receipt is the core-facing view of a confirmation. CreatedID carries the
// note id recovered from the NoteCreated log when one was emitted; id
// recovery is best-effort and a nil CreatedID on a successful create is not
// an error.
type Receipt struct {
	TxHash    common.Hash
	Succeeded bool
	CreatedID *uint64
	GasUsed   uint64
}

// PendingTx is a dispatched mutating call awaiting confirmation. Wait blocks
// until the network reports a final status or ctx is cancelled; the client
// imposes no timeout of its own.
type PendingTx interface {
	Hash() common.Hash
	Wait(ctx context.Context) (Receipt, error)
}

// NotesContract is the remote notes contract, caller-scoped: every operation
// acts on the notes owned by from.
type NotesContract interface {
	CreateNote(ctx context.Context, from common.Address, title, content string) (PendingTx, error)
	UpdateNote(ctx context.Context, from common.Address, id uint64, title, content string) (PendingTx, error)
	DeleteNote(ctx context.Context, from common.Address, id uint64) (PendingTx, error)

	GetNote(ctx context.Context, from common.Address, id uint64) (domain.Note, error)
	GetNotesList(ctx context.Context, from common.Address) ([]domain.NoteSummary, error)
	GetNoteCount(ctx context.Context, from common.Address) (uint64, error)

	// EncryptNote is a side-effect-free dry run used as a capability check.
	EncryptNote(ctx context.Context, from common.Address, content string) ([]byte, error)
	// EncryptionAddress is the cheapest view the contract exposes; the
	// diagnostics probe uses it as a reachability check.
	EncryptionAddress(ctx context.Context, from common.Address) (common.Address, error)
}
