package ports

import (
	"context"

	"github.com/wrenlabs/notewire/internal/domain"
)

type DraftRepository interface {
	Get(ctx context.Context, account string, targetID int64) (domain.Draft, error)
	List(ctx context.Context, account string) ([]domain.Draft, error)
	Save(ctx context.Context, draft domain.Draft) error
	Delete(ctx context.Context, account string, targetID int64) error
}
