package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

func TestClassifyDispatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "user denial", err: fmt.Errorf("prompt: %w", ports.ErrRequestDenied), want: domain.ErrDispatchRejected},
		{name: "insufficient funds", err: errors.New("insufficient funds for gas * price + value"), want: domain.ErrInsufficientFunds},
		{name: "gas allowance", err: errors.New("gas required exceeds allowance (3000000)"), want: domain.ErrInsufficientFunds},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: domain.ErrContractUnreachable},
		{name: "no contract code", err: errors.New("no contract code at given address"), want: domain.ErrContractUnreachable},
		{name: "anything else", err: errors.New("nonce too low"), want: domain.ErrUnknownFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDispatch(tt.err)
			if tt.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyConfirmationSuccess(t *testing.T) {
	receipt := ports.Receipt{TxHash: common.BigToHash(common.Big1), Succeeded: true}
	require.NoError(t, ClassifyConfirmation(receipt, nil))
}

func TestClassifyConfirmationRevertOutranksPatterns(t *testing.T) {
	// A mined-and-failed transaction is a revert no matter what the
	// transport layer would have said about it.
	receipt := ports.Receipt{TxHash: common.BigToHash(common.Big1), Succeeded: false}
	err := ClassifyConfirmation(receipt, nil)
	require.ErrorIs(t, err, domain.ErrExecutionReverted)
	require.NotErrorIs(t, err, domain.ErrContractUnreachable)
}

func TestClassifyConfirmationTransportFailure(t *testing.T) {
	err := ClassifyConfirmation(ports.Receipt{}, errors.New("lookup rpc.dev.gblend.xyz: no such host"))
	require.ErrorIs(t, err, domain.ErrContractUnreachable)

	err = ClassifyConfirmation(ports.Receipt{}, errors.New("websocket closed unexpectedly"))
	require.ErrorIs(t, err, domain.ErrUnknownFailure)
}
