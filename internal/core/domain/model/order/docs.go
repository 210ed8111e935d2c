// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: an immutable snapshot of a purchase, identified by a tracking id
//   - LineItem: a product, its captured unit price and quantity
//   - Status: the ordered lifecycle AwaitingPayment -> Confirmed -> InPreparation -> InTransit -> Delivered
//
// Key business rules:
//   - An order has at least one line item and its total equals the sum of the line subtotals
//   - Only payment moves an order out of AwaitingPayment
//   - Advance moves a paid order exactly one step and is a no-op once Delivered
//   - Transitions return new snapshots; existing snapshots never change
package order
