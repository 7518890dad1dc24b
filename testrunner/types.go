package testrunner

import (
	"context"

	"authcheck-cli/testreport"
)

// Unit is the executable body of a test case. It returns nil on success, a Skip or Fail
// signal, or any other error for an unexpected fault. Panics are treated like returned errors.
type Unit func() error

// Case is a named, grouped unit of verification. It is never mutated once built.
type Case struct {
	Name  string
	Group string
	Unit  Unit
}

// Registry supplies the ordered case list for a run
type Registry interface {
	Cases() ([]Case, error)
}

// RegistryFunc adapts a plain function to Registry
type RegistryFunc func() ([]Case, error)

// Cases calls f
func (f RegistryFunc) Cases() ([]Case, error) {
	return f()
}

// StaticRegistry always returns the same cases
type StaticRegistry []Case

// Cases returns the wrapped slice
func (r StaticRegistry) Cases() ([]Case, error) {
	return r, nil
}

// ReportObserver is notified after a report has been persisted
type ReportObserver interface {
	ObserveReport(ctx context.Context, report *testreport.Report) error
}

// StoreErrorObserver is optionally implemented by observers that track failed saves
type StoreErrorObserver interface {
	ObserveStoreError(err error)
}
