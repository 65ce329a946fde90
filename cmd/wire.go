package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	evmcontract "github.com/wrenlabs/notewire/internal/adapters/contract/evm"
	"github.com/wrenlabs/notewire/internal/adapters/keystore"
	tomlrepo "github.com/wrenlabs/notewire/internal/adapters/repo/toml"
	localwallet "github.com/wrenlabs/notewire/internal/adapters/wallet/local"
	"github.com/wrenlabs/notewire/internal/application"
	"github.com/wrenlabs/notewire/internal/config"
	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

type app struct {
	cfg    config.Config
	keys   *keystore.FileStore
	drafts ports.DraftRepository

	wireOnce sync.Once
	wireErr  error
	provider *localwallet.Provider
	sessions *application.SessionService
	coord    *application.Coordinator
	view     *application.ViewState
	probe    *application.DiagnosticsProbe
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	drafts, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire draft repository: %w", err)
	}

	return &app{
		cfg:    cfg,
		keys:   keystore.NewFileStore(cfg.KeyPath),
		drafts: drafts,
	}, nil
}

// ensureWallet wires the wallet and refuses to proceed without a usable
// contract address. Most commands want this; doctor calls wireWallet
// directly so the probe can report the bad address itself.
func (a *app) ensureWallet(ctx context.Context) error {
	if err := a.wireWallet(ctx); err != nil {
		return err
	}
	if !common.IsHexAddress(a.cfg.ContractAddress) {
		return fmt.Errorf("contract.address %q is not a valid address; set it in the config file or NOTEWIRE_CONTRACT_ADDRESS", a.cfg.ContractAddress)
	}
	return nil
}

// wireWallet builds the provider, contract adapter, and services on first
// use. Commands that touch the chain need a key; version and key import do
// not. An unparseable contract address wires as the zero address.
func (a *app) wireWallet(ctx context.Context) error {
	a.wireOnce.Do(func() {
		keyHex, err := a.keys.Load(ctx)
		if err != nil {
			a.wireErr = err
			return
		}

		provider, err := localwallet.NewProvider(keyHex)
		if err != nil {
			a.wireErr = fmt.Errorf("wire wallet provider: %w", err)
			return
		}

		contract, err := evmcontract.NewNotes(provider, common.HexToAddress(a.cfg.ContractAddress))
		if err != nil {
			a.wireErr = fmt.Errorf("wire notes contract: %w", err)
			return
		}

		sessions := application.NewSessionService(provider, a.cfg.Chain(), ports.SystemClock{})
		view := application.NewViewState()
		sessions.OnSessionChange(func(session *domain.Session) {
			view.OnSessionChange(session != nil)
		})
		sessions.Start()

		a.provider = provider
		a.sessions = sessions
		a.view = view
		a.coord = application.NewCoordinator(sessions, contract, ports.SystemClock{})
		a.probe = application.NewDiagnosticsProbe(sessions, contract, a.cfg.ContractAddress)
	})

	return a.wireErr
}

// connect establishes the authenticated session commands operate under.
func (a *app) connect(ctx context.Context) (domain.Session, error) {
	if err := a.ensureWallet(ctx); err != nil {
		return domain.Session{}, err
	}
	if session, ok := a.sessions.Current(); ok {
		return session, nil
	}
	return a.sessions.Connect(ctx)
}
