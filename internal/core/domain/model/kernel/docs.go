// Package kernel holds value objects shared across the storefront domain model.
//
// The package includes:
//   - TrackingID: the opaque, customer-facing identifier of an order
//   - TrackingIDGenerator: issues unique, time-sortable tracking ids
//
// Value objects here are immutable and safe for concurrent use.
package kernel
