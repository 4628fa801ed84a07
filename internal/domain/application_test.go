package domain_test

import (
	"testing"

	"go-jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []string{
		domain.ApplicationStatusApplied,
		domain.ApplicationStatusViewed,
		domain.ApplicationStatusShortlisted,
		domain.ApplicationStatusInterviewScheduled,
		domain.ApplicationStatusOffered,
		domain.ApplicationStatusHired,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusWithdrawn,
	}

	legal := map[[2]string]bool{
		{domain.ApplicationStatusApplied, domain.ApplicationStatusViewed}:                         true,
		{domain.ApplicationStatusApplied, domain.ApplicationStatusShortlisted}:                    true,
		{domain.ApplicationStatusViewed, domain.ApplicationStatusShortlisted}:                     true,
		{domain.ApplicationStatusShortlisted, domain.ApplicationStatusInterviewScheduled}:         true,
		{domain.ApplicationStatusInterviewScheduled, domain.ApplicationStatusOffered}:             true,
		{domain.ApplicationStatusOffered, domain.ApplicationStatusHired}:                          true,
	}
	// rejected and withdrawn are legal from every non-terminal state
	for _, from := range allStatuses {
		if domain.IsTerminalStatus(from) {
			continue
		}
		legal[[2]string{from, domain.ApplicationStatusRejected}] = true
		legal[[2]string{from, domain.ApplicationStatusWithdrawn}] = true
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[[2]string{from, to}]
			got := domain.CanTransition(from, to)
			assert.Equalf(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	terminals := []string{
		domain.ApplicationStatusHired,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusWithdrawn,
	}
	targets := []string{
		domain.ApplicationStatusViewed,
		domain.ApplicationStatusShortlisted,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusWithdrawn,
		domain.ApplicationStatusHired,
	}
	for _, from := range terminals {
		assert.True(t, domain.IsTerminalStatus(from))
		for _, to := range targets {
			assert.Falsef(t, domain.CanTransition(from, to), "terminal %s must not allow %s", from, to)
		}
	}
}

func TestMediatedTargets(t *testing.T) {
	assert.True(t, domain.IsMediatedTarget(domain.ApplicationStatusInterviewScheduled))
	assert.True(t, domain.IsMediatedTarget(domain.ApplicationStatusOffered))
	assert.True(t, domain.IsMediatedTarget(domain.ApplicationStatusHired))

	assert.False(t, domain.IsMediatedTarget(domain.ApplicationStatusViewed))
	assert.False(t, domain.IsMediatedTarget(domain.ApplicationStatusShortlisted))
	assert.False(t, domain.IsMediatedTarget(domain.ApplicationStatusRejected))
	assert.False(t, domain.IsMediatedTarget(domain.ApplicationStatusWithdrawn))
}
