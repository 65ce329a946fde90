package toml

import (
	"fmt"
	"time"

	"github.com/wrenlabs/notewire/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Drafts  []draftSchema `toml:"drafts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported drafts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type draftSchema struct {
	Account  string    `toml:"account"`
	TargetID int64     `toml:"target_id"`
	Title    string    `toml:"title"`
	Content  string    `toml:"content"`
	SavedAt  time.Time `toml:"saved_at"`
}

func toSchema(draft domain.Draft) draftSchema {
	return draftSchema{
		Account:  draft.Account,
		TargetID: draft.TargetID,
		Title:    draft.Title,
		Content:  draft.Content,
		SavedAt:  draft.SavedAt,
	}
}

func fromSchema(entry draftSchema) domain.Draft {
	return domain.Draft{
		Account:  entry.Account,
		TargetID: entry.TargetID,
		Title:    entry.Title,
		Content:  entry.Content,
		SavedAt:  entry.SavedAt,
	}
}
