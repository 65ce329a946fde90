package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wrenlabs/notewire/internal/domain"
	"github.com/wrenlabs/notewire/internal/ports"
)

var fundsPatterns = []string{
	"insufficient funds",
	"insufficient balance",
	"gas required exceeds allowance",
}

var unreachablePatterns = []string{
	"no contract code",
	"connection refused",
	"no such host",
	"connection reset",
	"abi:",
	"missing trie node",
	"method not found",
}

// ClassifyDispatch maps a dispatch-time error onto the failure taxonomy.
// Precedence: user rejection, then message patterns, then unknown.
func ClassifyDispatch(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrRequestDenied) {
		return fmt.Errorf("%w: %v", domain.ErrDispatchRejected, err)
	}
	if matched := matchPattern(err); matched != nil {
		return matched
	}
	return fmt.Errorf("%w: %v", domain.ErrUnknownFailure, err)
}

// ClassifyConfirmation maps a confirmation-time failure onto the taxonomy.
// A zero-status receipt outranks any transport message: the transaction was
// mined and failed, regardless of how the dispatch looked.
func ClassifyConfirmation(receipt ports.Receipt, err error) error {
	if err == nil && receipt.Succeeded {
		return nil
	}
	if err != nil && errors.Is(err, ports.ErrRequestDenied) {
		return fmt.Errorf("%w: %v", domain.ErrDispatchRejected, err)
	}
	if err == nil && !receipt.Succeeded {
		return fmt.Errorf("%w: tx %s", domain.ErrExecutionReverted, receipt.TxHash.Hex())
	}
	if matched := matchPattern(err); matched != nil {
		return matched
	}
	return fmt.Errorf("%w: %v", domain.ErrUnknownFailure, err)
}

func matchPattern(err error) error {
	msg := strings.ToLower(err.Error())
	for _, p := range fundsPatterns {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %v", domain.ErrInsufficientFunds, err)
		}
	}
	for _, p := range unreachablePatterns {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %v", domain.ErrContractUnreachable, err)
		}
	}
	return nil
}
