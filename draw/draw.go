// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// MinMembers is the smallest group a draw can be made for.
	MinMembers = 3

	// MaxAttempts bounds the shuffle-and-check phase before the single-cycle fallback.
	MaxAttempts = 100
)

// ErrInvalidInput matches every *InvalidInputError under errors.Is.
var ErrInvalidInput = errors.New("invalid draw input")

// InvalidInputError reports a member list the generator refuses to draw.
type InvalidInputError struct {
	Count     int
	Duplicate string
}

func (e *InvalidInputError) Error() string {
	if e.Duplicate != "" {
		return fmt.Sprintf("member %q appears more than once", e.Duplicate)
	}
	return fmt.Sprintf("at least %d participants required, got %d", MinMembers, e.Count)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Source supplies the randomness for one draw.
type Source interface {
	Shuffle(n int, swap func(i, j int))
}

// Assignment maps each giver to the member they give a gift to.
type Assignment map[string]string

// Outcome describes how a draw was reached.
type Outcome struct {
	Attempts int
	Fallback bool
}

// Generator draws assignments. It holds no state between draws and is
// safe for concurrent use.
type Generator struct {
	newSource   func() Source
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the factory called once per draw for its randomness.
// A nil factory is ignored.
func WithSource(newSource func() Source) Option {
	return func(g *Generator) {
		if newSource != nil {
			g.newSource = newSource
		}
	}
}

// WithMaxAttempts overrides MaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator returns a Generator seeded fresh for every draw unless
// WithSource says otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newSource:   defaultSource,
		maxAttempts: MaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func defaultSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

var defaultGenerator = NewGenerator()

// Assign draws a fresh assignment for members using the default generator.
func Assign(members []string) (Assignment, error) {
	return defaultGenerator.Assign(members)
}

func (g *Generator) Assign(members []string) (Assignment, error) {
	a, _, err := g.Draw(members)
	return a, err
}

// Draw is Assign plus the Outcome of the attempt loop.
func (g *Generator) Draw(members []string) (Assignment, Outcome, error) {
	if err := checkMembers(members); err != nil {
		return nil, Outcome{}, err
	}

	src := g.newSource()
	receivers := make([]string, len(members))
	copy(receivers, members)

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		shuffle(src, receivers)
		if noFixedPoints(members, receivers) {
			a := make(Assignment, len(members))
			for i, giver := range members {
				a[giver] = receivers[i]
			}
			return a, Outcome{Attempts: attempt}, nil
		}
	}

	return singleCycle(src, members), Outcome{Attempts: g.maxAttempts, Fallback: true}, nil
}

func checkMembers(members []string) error {
	if len(members) < MinMembers {
		return &InvalidInputError{Count: len(members)}
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			return &InvalidInputError{Count: len(members), Duplicate: m}
		}
		seen[m] = struct{}{}
	}
	return nil
}

func shuffle(src Source, s []string) {
	src.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func noFixedPoints(givers, receivers []string) bool {
	for i := range givers {
		if givers[i] == receivers[i] {
			return false
		}
	}
	return true
}

// singleCycle links a shuffled ordering into one cycle covering everyone.
func singleCycle(src Source, members []string) Assignment {
	order := make([]string, len(members))
	copy(order, members)
	shuffle(src, order)

	a := make(Assignment, len(order))
	for i, giver := range order {
		a[giver] = order[(i+1)%len(order)]
	}
	return a
}
