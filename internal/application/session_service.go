package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

// SessionService owns the one mutable Session. Other components read
// snapshots through Current; only this service installs or clears a Session,
// and never without the challenge signature verifying first.
type SessionService struct {
	provider ports.WalletProvider
	chain    domain.ChainDefinition
	clock    ports.Clock
	logger   *slog.Logger
	newNonce func() string

	mu               sync.Mutex
	session          *domain.Session
	manualDisconnect bool
	authGen          uint64
	authInFlight     bool
	observers        []func(session *domain.Session)
	unsubscribe      func()
}

func NewSessionService(provider ports.WalletProvider, chain domain.ChainDefinition, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{
		provider: provider,
		chain:    chain,
		clock:    clock,
		logger:   slog.Default(),
		newNonce: uuid.NewString,
	}
}

// Current returns a snapshot of the active session. Callers must re-read
// after any awaited suspension point instead of caching the value.
func (s *SessionService) Current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// OnSessionChange registers an observer invoked with the new session, or nil
// on session loss. Observers run on the goroutine that changed the session.
func (s *SessionService) OnSessionChange(fn func(session *domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Start subscribes to the provider's account-change notifications.
func (s *SessionService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.provider.OnAccountsChanged(func(accounts []common.Address) {
		s.HandleAccountsChanged(context.Background(), accounts)
	})
}

func (s *SessionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Connect establishes a fresh authenticated session: switch to the supported
// chain (adding it to the provider if unknown), request account access, then
// run the challenge protocol for the first reported account. No Session
// exists until every step has passed.
func (s *SessionService) Connect(ctx context.Context) (domain.Session, error) {
	if s.provider == nil {
		return domain.Session{}, domain.ErrNoProvider
	}

	gen, err := s.beginAuth()
	if err != nil {
		return domain.Session{}, err
	}
	defer s.endAuth()

	if err := s.ensureChain(ctx); err != nil {
		return domain.Session{}, err
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrRequestDenied) {
			return domain.Session{}, fmt.Errorf("request accounts: %w", domain.ErrSignatureRejected)
		}
		return domain.Session{}, fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return domain.Session{}, fmt.Errorf("provider reported no accounts: %w", domain.ErrNoProvider)
	}

	session, err := s.authenticate(ctx, accounts[0])
	if err != nil {
		return domain.Session{}, err
	}

	if !s.install(gen, session) {
		return domain.Session{}, fmt.Errorf("connect superseded by an account change: %w", domain.ErrAuthInProgress)
	}
	return session, nil
}

// Disconnect clears the session and suppresses automatic re-authentication
// until the next explicit Connect.
func (s *SessionService) Disconnect() {
	s.mu.Lock()
	s.session = nil
	s.manualDisconnect = true
	s.authGen++
	observers := append([]func(*domain.Session){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(nil)
	}
}

// HandleAccountsChanged reacts to the provider reporting an account change
// outside this client's control. The stale session is cleared before any
// re-authentication starts, so no action can ride a session bound to the
// previous account. A notification arriving while a re-auth is in flight
// replaces it: the older attempt's result is discarded.
func (s *SessionService) HandleAccountsChanged(ctx context.Context, accounts []common.Address) {
	s.mu.Lock()
	hadSession := s.session != nil
	s.session = nil
	s.authGen++
	gen := s.authGen
	suppressed := s.manualDisconnect
	observers := append([]func(*domain.Session){}, s.observers...)
	s.mu.Unlock()

	if hadSession {
		for _, fn := range observers {
			fn(nil)
		}
	}

	if suppressed || len(accounts) == 0 {
		return
	}

	session, err := s.authenticate(ctx, accounts[0])
	if err != nil {
		s.logger.Debug("re-authentication after account change failed", "error", err)
		return
	}
	s.install(gen, session)
}

// authenticate runs the challenge/signature protocol for one candidate
// account and verifies the recovered signer before returning a session.
func (s *SessionService) authenticate(ctx context.Context, account common.Address) (domain.Session, error) {
	challenge := domain.Challenge{
		Account:  account,
		Nonce:    s.newNonce(),
		IssuedAt: s.clock.Now(),
	}

	signature, err := s.provider.SignText(ctx, account, challenge.Message())
	if err != nil {
		if errors.Is(err, ports.ErrRequestDenied) {
			return domain.Session{}, fmt.Errorf("sign challenge: %w", domain.ErrSignatureRejected)
		}
		return domain.Session{}, fmt.Errorf("sign challenge: %w", err)
	}

	signer, err := s.provider.RecoverSigner(challenge.Message(), signature)
	if err != nil {
		return domain.Session{}, fmt.Errorf("recover signer: %w", err)
	}
	if signer != account {
		return domain.Session{}, fmt.Errorf("account %s signed as %s: %w", account.Hex(), signer.Hex(), domain.ErrSignerMismatch)
	}

	return domain.Session{
		Account:  account,
		ChainID:  s.chain.ChainID,
		IssuedAt: s.clock.Now(),
	}, nil
}

func (s *SessionService) ensureChain(ctx context.Context) error {
	err := s.provider.SwitchChain(ctx, s.chain.ChainID)
	if errors.Is(err, ports.ErrUnknownChain) {
		if err = s.provider.AddChain(ctx, s.chain); err == nil {
			err = s.provider.SwitchChain(ctx, s.chain.ChainID)
		}
	}
	if err != nil {
		if errors.Is(err, ports.ErrRequestDenied) {
			return fmt.Errorf("switch to chain %d: %w", s.chain.ChainID, domain.ErrNetworkSwitchRejected)
		}
		return fmt.Errorf("switch to chain %d: %w", s.chain.ChainID, err)
	}
	return nil
}

func (s *SessionService) beginAuth() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authInFlight {
		return 0, domain.ErrAuthInProgress
	}
	s.authInFlight = true
	// An explicit connect attempt lifts disconnect suppression even when the
	// attempt later fails.
	s.manualDisconnect = false
	s.authGen++
	return s.authGen, nil
}

func (s *SessionService) endAuth() {
	s.mu.Lock()
	s.authInFlight = false
	s.mu.Unlock()
}

// install publishes a verified session unless a newer attempt superseded gen.
func (s *SessionService) install(gen uint64, session domain.Session) bool {
	s.mu.Lock()
	if s.authGen != gen {
		s.mu.Unlock()
		return false
	}
	s.session = &session
	observers := append([]func(*domain.Session){}, s.observers...)
	s.mu.Unlock()

	s.logger.Debug("session established", "account", session.Account.Hex(), "chain", session.ChainID)
	for _, fn := range observers {
		snapshot := session
		fn(&snapshot)
	}
	return true
}
