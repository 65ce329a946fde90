package application

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenlabs/notewire/internal/domain"
)

const probeContractAddress = "0x1111111111111111111111111111111111111111"

func healthyProbeContract() *fakeContract {
	return &fakeContract{
		encryptAddrFn: func(_ context.Context, _ common.Address) (common.Address, error) {
			return common.HexToAddress("0x2222222222222222222222222222222222222222"), nil
		},
		encryptNoteFn: func(_ context.Context, _ common.Address, _ string) ([]byte, error) {
			return []byte{0x01}, nil
		},
		getNoteCountFn: func(_ context.Context, _ common.Address) (uint64, error) {
			return 3, nil
		},
	}
}

func TestProbeAllChecksPass(t *testing.T) {
	provider := &fakeProvider{accounts: []common.Address{accountA()}}
	sessions := NewSessionService(provider, testChain, fakeClock{})
	_, err := sessions.Connect(context.Background())
	require.NoError(t, err)

	probe := NewDiagnosticsProbe(sessions, healthyProbeContract(), probeContractAddress)
	report := probe.Run(context.Background())

	assert.True(t, report.Healthy())
	assert.Empty(t, report.Errors)
	assert.Equal(t, []string{"all checks passed"}, report.Recommendations())
}

func TestProbeFailingCheckDoesNotStopLaterChecks(t *testing.T) {
	provider := &fakeProvider{accounts: []common.Address{accountA()}}
	sessions := NewSessionService(provider, testChain, fakeClock{})
	_, err := sessions.Connect(context.Background())
	require.NoError(t, err)

	contract := healthyProbeContract()
	contract.encryptNoteFn = func(_ context.Context, _ common.Address, _ string) ([]byte, error) {
		return nil, errors.New("execution reverted")
	}
	countCalled := false
	base := contract.getNoteCountFn
	contract.getNoteCountFn = func(ctx context.Context, from common.Address) (uint64, error) {
		countCalled = true
		return base(ctx, from)
	}

	probe := NewDiagnosticsProbe(sessions, contract, probeContractAddress)
	report := probe.Run(context.Background())

	assert.True(t, countCalled, "storage check must run even after the capability check fails")
	assert.False(t, report.Healthy())
	assert.True(t, report.AddressOK)
	assert.True(t, report.Reachable)
	assert.False(t, report.CapabilityOK)
	assert.True(t, report.ReadOK)
	assert.Contains(t, report.Errors, domain.CheckCapability)
	assert.NotEmpty(t, report.Recommendations())
}

func TestProbeInvalidAddressStillRunsNetworkChecks(t *testing.T) {
	provider := &fakeProvider{accounts: []common.Address{accountA()}}
	sessions := NewSessionService(provider, testChain, fakeClock{})

	probe := NewDiagnosticsProbe(sessions, healthyProbeContract(), "not-an-address")
	report := probe.Run(context.Background())

	assert.False(t, report.AddressOK)
	assert.True(t, report.Reachable)
	assert.Contains(t, report.Errors, domain.CheckAddress)
}

func TestProbeWithoutSessionUsesZeroCaller(t *testing.T) {
	provider := &fakeProvider{accounts: []common.Address{accountA()}}
	sessions := NewSessionService(provider, testChain, fakeClock{})

	var caller common.Address
	contract := healthyProbeContract()
	contract.getNoteCountFn = func(_ context.Context, from common.Address) (uint64, error) {
		caller = from
		return 0, nil
	}

	probe := NewDiagnosticsProbe(sessions, contract, probeContractAddress)
	report := probe.Run(context.Background())

	assert.True(t, report.ReadOK)
	assert.Equal(t, common.Address{}, caller)
}
