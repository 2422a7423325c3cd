// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package draw assigns every member of a gift-exchange group another member
to give a gift to.

# Assignments

An Assignment maps giver → receiver. A valid assignment over a member set
is a permutation with no fixed points (a derangement):

  - every member gives exactly once
  - every member receives exactly once
  - nobody is assigned to themselves

# Generating

	a, err := draw.Assign([]string{"ana", "beto", "carla"})
	if errors.Is(err, draw.ErrInvalidInput) {
		// fewer than 3 members, or a duplicated member
	}

The generator shuffles the members and accepts the shuffle if nobody drew
themselves, retrying up to MaxAttempts times. Rejection sampling over a
uniform shuffle is uniform over derangements. If every attempt is rejected
it falls back to a random single cycle, order[i] → order[i+1], which is
always valid for three or more members.

Randomness comes from a Source built fresh for every call:

	g := draw.NewGenerator(draw.WithSource(func() draw.Source {
		return rand.New(rand.NewPCG(1, 2))
	}))

*math/rand/v2.Rand satisfies Source. The default source is a PCG seeded
from the runtime's random state.

# Validating

Validate and IsValid check any mapping structurally (bijection, no fixed
points) regardless of size. Covers additionally checks the givers against
a specific roster, for mappings read back from storage:

	if err := draw.Validate(stored); err != nil { ... }
	if err := draw.Covers(stored, memberIDs); err != nil { ... }
*/
package draw
