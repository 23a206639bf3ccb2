// Package transform holds the metamorphic input patterns (MRIPs): operations
// that turn a source test set into a follow-up test set.
//
// Each operation is registered once per data domain it supports and is
// selected by explicit dispatch on [domain.Kind]. Looking up an operation for a
// domain it was not registered for yields a [domain.DomainMismatchError]
// instead of a silent no-op, so a chain of transformations either applies
// completely or reports where it stopped.
package transform
