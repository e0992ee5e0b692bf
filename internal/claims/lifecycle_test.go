package claims

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalTransitionTable(t *testing.T) {
	cases := []struct {
		from  ClaimStatus
		to    ClaimStatus
		legal bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusSubmitted, StatusVerified, true},
		{StatusVerified, StatusApproved, true},
		{StatusApproved, StatusSettled, true},
		{StatusDraft, StatusRejected, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusVerified, StatusRejected, true},
		{StatusApproved, StatusRejected, true},

		{StatusDraft, StatusVerified, false},
		{StatusDraft, StatusApproved, false},
		{StatusSubmitted, StatusApproved, false},
		{StatusSubmitted, StatusSettled, false},
		{StatusVerified, StatusSettled, false},
		{StatusRejected, StatusSubmitted, false},
		{StatusRejected, StatusSettled, false},
		{StatusSettled, StatusRejected, false},
		{StatusSettled, StatusApproved, false},
		{StatusApproved, StatusVerified, false},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.legal, LegalTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusSettled.Terminal())
	require.True(t, StatusRejected.Terminal())
	require.False(t, StatusDraft.Terminal())
	require.False(t, StatusSubmitted.Terminal())
	require.False(t, StatusVerified.Terminal())
	require.False(t, StatusApproved.Terminal())
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusDraft.Valid())
	require.True(t, StatusSettled.Valid())
	require.False(t, ClaimStatus("PAID").Valid())
	require.False(t, ClaimStatus("").Valid())
}
