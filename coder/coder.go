// Package coder defines the interfaces the escape cascade requires of a decision coder.
// See its subpackages for particular realizations.
//
// A decision is the choice of one candidate out of a weighted list.
// Encoders and decoders are handed the same weights, in the same order, for every decision;
// it is up to the realization to turn weights into bits deterministically.
package coder

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEnd is returned when the input ends inside a decision.
	ErrUnexpectedEnd = errors.New("input ended inside a decision")

	// ErrNoCandidates is returned when a decision is requested over an empty list.
	ErrNoCandidates = errors.New("no candidates to choose from")
)

// An Encoder transmits decisions.
type Encoder interface {
	// Encode transmits the choice of candidate i among candidates with the given weights.
	Encode(weights []uint32, i int) error

	// Close flushes the pending bits. It does not close the underlying writer.
	Close() error
}

// A Decoder receives decisions transmitted by an Encoder.
type Decoder interface {
	// Decode returns the index of the candidate that was chosen among candidates with the given weights.
	Decode(weights []uint32) (int, error)
}
