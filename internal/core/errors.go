// ABOUTME: Error taxonomy shared by the builder, retriever and assistant
// ABOUTME: Sentinel categories plus a structured error for embedder/answerer failures
package core

import (
	"errors"
	"fmt"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/index"
)

var (
	// ErrConfig covers invalid chunking parameters, model identifier mismatches
	// and embedding dimension mismatches. Fatal at startup or build time.
	ErrConfig = errors.New("configuration error")

	// ErrInput covers blank questions and empty source documents
	ErrInput = errors.New("invalid input")

	// ErrIntegrity covers metadata/index disagreements
	ErrIntegrity = errors.New("data integrity error")

	// ErrCapability is the category of every embedder or answerer failure
	ErrCapability = errors.New("external capability failure")

	// ErrNoContext means retrieval produced no usable text
	ErrNoContext = errors.New("no relevant context found")
)

// NoContextAnswer is returned to users when retrieval finds nothing
const NoContextAnswer = "No relevant context found in the document."

// CapabilityError wraps a failure of an embedding or answering model call
type CapabilityError struct {
	Capability string // "embedder" or "answerer"
	Op         string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Capability, e.Op, e.Err)
}

// Unwrap exposes both the category and the cause to errors.Is
func (e *CapabilityError) Unwrap() []error {
	return []error{ErrCapability, e.Err}
}

func capabilityErr(capability, op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CapabilityError
	if errors.As(err, &ce) {
		return err
	}
	return &CapabilityError{Capability: capability, Op: op, Err: err}
}

// classify maps lower-level sentinels into the taxonomy
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConfig), errors.Is(err, ErrInput), errors.Is(err, ErrIntegrity), errors.Is(err, ErrCapability):
		return err
	case errors.Is(err, index.ErrDimensionMismatch), errors.Is(err, index.ErrModelMismatch), errors.Is(err, config.ErrInvalid):
		return fmt.Errorf("%w: %w", ErrConfig, err)
	case errors.Is(err, index.ErrIndexCorrupt), errors.Is(err, index.ErrBuildMismatch):
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}

// IsUserError reports whether err should be shown to the caller as a rejected request
func IsUserError(err error) bool {
	return errors.Is(err, ErrInput)
}
