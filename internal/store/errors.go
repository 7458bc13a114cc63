package store

import "fmt"

// PersistenceError reports a failed store write. The backfill consumer
// relies on it to leave the queue message in place for redelivery.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
