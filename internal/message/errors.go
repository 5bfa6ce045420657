package message

import "fmt"

// InsufficientEvidenceError means the generator could not construct a
// grounded opener, pain, or proof element for a contact. It fails that
// contact's variants, never the whole batch.
type InsufficientEvidenceError struct {
	ContactID string
	Missing   string // "hook", "pain", "proof_point"
}

func (e *InsufficientEvidenceError) Error() string {
	return fmt.Sprintf("contact %s: no evidence-backed %s available", e.ContactID, e.Missing)
}

// CollaboratorUnavailableError means the optional polish service failed
// after retries. The caller degrades to the unpolished draft.
type CollaboratorUnavailableError struct {
	Attempts int
	Err      error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("polish collaborator unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Err }
