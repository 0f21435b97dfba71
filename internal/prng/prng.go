// Package prng implements the seeded linear-congruential generator every
// simulation step draws from.
//
// # Determinism
//
// A Rand is a pure function of its seed and the number of draws taken from
// it. There is no global state and no time dependence, so two generators
// created with the same seed produce identical sequences in any process.
package prng

import (
	"fmt"

	apperrors "franchise-league/internal/errors"
)

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// ErrEmptyInput is returned by Pick when there is nothing to pick from.
var ErrEmptyInput = apperrors.EmptyInput("cannot pick from an empty sequence")

// ErrInvalidRange is returned by NextInt when max < min.
var ErrInvalidRange = apperrors.InvalidRange("max must be greater than or equal to min")

// Rand is a seeded LCG stream.
type Rand struct {
	state uint32
}

// New creates a generator seeded with seed.
func New(seed uint32) *Rand {
	return &Rand{state: seed}
}

// State returns the current internal state, which can be fed back into New
// to resume the stream.
func (r *Rand) State() uint32 {
	return r.state
}

// Next returns the next float in [0, 1).
func (r *Rand) Next() float64 {
	r.state = r.state*multiplier + increment
	return float64(r.state) / modulus
}

// NextInt returns an integer in [min, max], both inclusive.
func (r *Rand) NextInt(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("next int [%d, %d]: %w", min, max, ErrInvalidRange)
	}
	return min + int(r.Next()*float64(max-min+1)), nil
}

// Between is NextInt for ranges that are fixed at compile time. An inverted
// range collapses to min instead of failing.
func (r *Rand) Between(min, max int) int {
	if max <= min {
		return min
	}
	v, _ := r.NextInt(min, max)
	return v
}

// Chance reports whether a draw falls under p.
func (r *Rand) Chance(p float64) bool {
	return r.Next() < p
}

// Pick returns a uniformly drawn element of items.
func Pick[T any](r *Rand, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyInput
	}
	return items[r.Between(0, len(items)-1)], nil
}

// Derive mixes parts into seed to produce an independent child seed. It is
// used to give every lot, match and innings its own replayable stream.
func Derive(seed uint32, parts ...int) uint32 {
	h := seed ^ 0x9e3779b9
	for _, p := range parts {
		h ^= uint32(p) + 0x9e3779b9 + (h << 6) + (h >> 2)
		h *= 0x85ebca6b
		h ^= h >> 13
	}
	return h
}

// HashString folds s into a seed component.
func HashString(s string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return int(h & 0x7fffffff)
}
