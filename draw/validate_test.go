// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       map[string]string
		wantErr error
	}{
		{"three cycle", map[string]string{"A": "B", "B": "C", "C": "A"}, nil},
		{"reverse three cycle", map[string]string{"A": "C", "B": "A", "C": "B"}, nil},
		{"two members swap", map[string]string{"A": "B", "B": "A"}, nil},
		{"two disjoint swaps", map[string]string{"A": "B", "B": "A", "C": "D", "D": "C"}, nil},
		{"empty", map[string]string{}, nil},
		{"fixed point", map[string]string{"A": "A", "B": "C", "C": "B"}, ErrSelfAssignment},
		{"single self", map[string]string{"A": "A"}, ErrSelfAssignment},
		{"receiver twice", map[string]string{"A": "B", "B": "C", "C": "B"}, ErrNotBijective},
		{"receiver outside givers", map[string]string{"A": "B", "B": "C", "C": "D"}, ErrNotBijective},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.a)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.True(t, IsValid(tt.a))
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.False(t, IsValid(tt.a))
		})
	}
}

func TestValidate_AcceptsGeneratedAssignments(t *testing.T) {
	for n := MinMembers; n <= 25; n++ {
		a, err := Assign(memberNames(n))
		require.NoError(t, err)
		require.True(t, IsValid(a), "n=%d", n)
	}
}

func TestCovers(t *testing.T) {
	a := map[string]string{"A": "B", "B": "C", "C": "A"}

	require.NoError(t, Covers(a, []string{"A", "B", "C"}))
	require.NoError(t, Covers(a, []string{"C", "A", "B"}))

	require.ErrorIs(t, Covers(a, []string{"A", "B"}), ErrMemberMismatch)
	require.ErrorIs(t, Covers(a, []string{"A", "B", "C", "D"}), ErrMemberMismatch)
	require.ErrorIs(t, Covers(a, []string{"A", "B", "D"}), ErrMemberMismatch)
}

func TestCovers_StaleRoster(t *testing.T) {
	// A structurally valid mapping saved before someone joined.
	stored := map[string]string{"A": "B", "B": "C", "C": "A"}
	require.True(t, IsValid(stored))
	require.ErrorIs(t, Covers(stored, []string{"A", "B", "C", "D"}), ErrMemberMismatch)
}
