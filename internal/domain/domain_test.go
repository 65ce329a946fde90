package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestSortSummariesMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summaries := []NoteSummary{
		{ID: 1, Title: "oldest", UpdatedAt: base},
		{ID: 4, Title: "newest", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Title: "tie-low", UpdatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "tie-high", UpdatedAt: base.Add(time.Hour)},
	}

	SortSummaries(summaries)

	got := make([]uint64, 0, len(summaries))
	for _, s := range summaries {
		got = append(got, s.ID)
	}
	assert.Equal(t, []uint64{4, 3, 2, 1}, got)
}

func TestSortSummariesEmpty(t *testing.T) {
	var summaries []NoteSummary
	SortSummaries(summaries)
	assert.Empty(t, summaries)
}

func TestChallengeMessageBindsAccountAndNonce(t *testing.T) {
	challenge := Challenge{
		Account:  common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		Nonce:    "nonce-123",
		IssuedAt: time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
	}

	message := string(challenge.Message())

	assert.Contains(t, message, challenge.Account.Hex())
	assert.Contains(t, message, "nonce-123")
	assert.Contains(t, message, "2026-02-14T09:30:00Z")
	assert.True(t, strings.HasPrefix(message, "notewire wants you to sign in"))
}

func TestDiagnosticReportHealthy(t *testing.T) {
	report := DiagnosticReport{AddressOK: true, Reachable: true, CapabilityOK: true, ReadOK: true}
	assert.True(t, report.Healthy())
	assert.Equal(t, []string{"all checks passed"}, report.Recommendations())

	report.CapabilityOK = false
	assert.False(t, report.Healthy())
}

func TestDiagnosticReportRecommendationsGating(t *testing.T) {
	// An unreachable contract should not also complain about capability or
	// storage; those checks could not have meant anything.
	report := DiagnosticReport{AddressOK: true}
	recs := report.Recommendations()

	assert.Len(t, recs, 1)
	assert.Contains(t, recs[0], "did not answer")
}
