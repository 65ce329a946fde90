// Package toml persists note drafts in a single TOML file so unsent text
// survives failed saves and interrupted edits.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

const (
	draftsPathKey   = "drafts.path"
	draftsFileMode  = 0o600
	draftsDirMode   = 0o700
	draftsConfigDir = ".notewire"
	draftsFile      = "drafts.toml"
	tempFilePattern = ".drafts-*.toml.tmp"
)

type Repository struct {
	draftsPath string
	mu         *sync.RWMutex
}

// One lock per file path; two repositories opened on the same file must not
// interleave read-modify-write cycles.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.DraftRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(draftsPathKey, filepath.Join(homeDir, draftsConfigDir, draftsFile))

	draftsPath := cfg.GetString(draftsPathKey)
	if draftsPath == "" {
		return nil, errors.New("drafts path is empty")
	}
	draftsPath, err = filepath.Abs(draftsPath)
	if err != nil {
		return nil, fmt.Errorf("resolve drafts path: %w", err)
	}
	draftsPath = filepath.Clean(draftsPath)

	return &Repository{draftsPath: draftsPath, mu: lockForPath(draftsPath)}, nil
}

func (r *Repository) Get(ctx context.Context, account string, targetID int64) (domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return domain.Draft{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Draft{}, err
	}

	for _, entry := range file.Drafts {
		if entry.Account == account && entry.TargetID == targetID {
			return fromSchema(entry), nil
		}
	}

	return domain.Draft{}, domain.ErrDraftNotFound
}

func (r *Repository) List(ctx context.Context, account string) ([]domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	drafts := make([]domain.Draft, 0, len(file.Drafts))
	for _, entry := range file.Drafts {
		if entry.Account == account {
			drafts = append(drafts, fromSchema(entry))
		}
	}

	return drafts, nil
}

func (r *Repository) Save(ctx context.Context, draft domain.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(draft)
	updated := false
	for i := range file.Drafts {
		if file.Drafts[i].Account == encoded.Account && file.Drafts[i].TargetID == encoded.TargetID {
			file.Drafts[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Drafts = append(file.Drafts, encoded)
	}

	return r.writeSchema(file)
}

func (r *Repository) Delete(ctx context.Context, account string, targetID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Drafts[:0]
	for _, entry := range file.Drafts {
		if entry.Account == account && entry.TargetID == targetID {
			continue
		}
		kept = append(kept, entry)
	}
	file.Drafts = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.draftsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read drafts file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode drafts file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.draftsPath), draftsDirMode); err != nil {
		return fmt.Errorf("create drafts directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode drafts file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.draftsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp drafts file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp drafts file: %w", err)
	}

	if err := tempFile.Chmod(draftsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp drafts file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp drafts file: %w", err)
	}

	if err := os.Rename(tempName, r.draftsPath); err != nil {
		return fmt.Errorf("replace drafts file: %w", err)
	}

	cleanup = false
	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
