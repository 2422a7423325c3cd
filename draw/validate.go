// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"errors"
	"fmt"
)

var (
	ErrSelfAssignment = errors.New("member assigned to themselves")
	ErrNotBijective   = errors.New("receivers do not match givers")
	ErrMemberMismatch = errors.New("givers do not match member set")
)

// Validate checks that a is a permutation of its own keys with no fixed
// points. It does not enforce MinMembers.
func Validate(a map[string]string) error {
	received := make(map[string]struct{}, len(a))
	for giver, receiver := range a {
		if giver == receiver {
			return fmt.Errorf("%w: %q", ErrSelfAssignment, giver)
		}
		if _, ok := a[receiver]; !ok {
			return fmt.Errorf("%w: %q receives but does not give", ErrNotBijective, receiver)
		}
		if _, dup := received[receiver]; dup {
			return fmt.Errorf("%w: %q receives twice", ErrNotBijective, receiver)
		}
		received[receiver] = struct{}{}
	}
	return nil
}

// IsValid reports whether Validate accepts a.
func IsValid(a map[string]string) bool {
	return Validate(a) == nil
}

// Covers reports whether the givers in a are exactly members.
func Covers(a map[string]string, members []string) error {
	if len(a) != len(members) {
		return fmt.Errorf("%w: %d givers for %d members", ErrMemberMismatch, len(a), len(members))
	}
	for _, m := range members {
		if _, ok := a[m]; !ok {
			return fmt.Errorf("%w: %q has no receiver", ErrMemberMismatch, m)
		}
	}
	return nil
}
