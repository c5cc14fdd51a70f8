package processor

import "fmt"

// ProcessingError wraps an unexpected fault raised while converting a document.
type ProcessingError struct {
	DocumentID int64
	Stage      string
	Err        error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing document %d failed at %s: %v", e.DocumentID, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
