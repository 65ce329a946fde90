package application

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

// DiagnosticsProbe runs a fixed sequence of independent read-only checks
// against the contract. A failing check never stops the ones after it.
type DiagnosticsProbe struct {
	sessions        *SessionService
	contract        ports.NotesContract
	contractAddress string
}

func NewDiagnosticsProbe(sessions *SessionService, contract ports.NotesContract, contractAddress string) *DiagnosticsProbe {
	return &DiagnosticsProbe{
		sessions:        sessions,
		contract:        contract,
		contractAddress: contractAddress,
	}
}

// Run executes all four checks and rebuilds the report from scratch. Reads
// are scoped to the session account when one exists; without a session the
// zero address still exercises the contract surface.
func (p *DiagnosticsProbe) Run(ctx context.Context) domain.DiagnosticReport {
	report := domain.DiagnosticReport{Errors: map[string]string{}}

	var from common.Address
	if session, ok := p.sessions.Current(); ok {
		from = session.Account
	}

	if common.IsHexAddress(p.contractAddress) {
		report.AddressOK = true
	} else {
		report.Errors[domain.CheckAddress] = "not a valid hex address: " + p.contractAddress
	}

	if _, err := p.contract.EncryptionAddress(ctx, from); err != nil {
		report.Errors[domain.CheckContract] = err.Error()
	} else {
		report.Reachable = true
	}

	if _, err := p.contract.EncryptNote(ctx, from, "diagnostic probe"); err != nil {
		report.Errors[domain.CheckCapability] = err.Error()
	} else {
		report.CapabilityOK = true
	}

	if _, err := p.contract.GetNoteCount(ctx, from); err != nil {
		report.Errors[domain.CheckStorage] = err.Error()
	} else {
		report.ReadOK = true
	}

	return report
}
