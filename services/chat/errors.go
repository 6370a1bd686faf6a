package chat

import "fmt"

// PastDateError marks a requested date earlier than today. It is the only
// fatal signal in the pipeline: the turn short-circuits and the error is
// surfaced directly, ahead of every other outcome.
type PastDateError struct {
	Date  string
	Today string
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("requested date %s is before today (%s)", e.Date, e.Today)
}
