// Package order holds the order model shared by every role screen and the one
// state machine that decides which status changes are legal.
//
// The package includes:
//   - Order: a table order (placed by a waiter) or an app order (placed by a customer)
//   - LineItem: a product snapshot with quantity and unit price
//   - Status and Kind: the lifecycle vocabulary, with the backend's Spanish names
//   - AttemptTransition: the pure transition function used before any backend call
//
// Table orders:
//
//	PENDING ──> PREPARING ──> READY ──> DELIVERED ──> CHARGED
//	   │            │
//	   └────────────┴──> CANCELLED
//
// App orders:
//
//	PENDING ──> PREPARING ──> PREPARED ──> CHARGED
//	   │            │
//	   └────────────┴──> CANCELLED
//
// Nothing in this package performs I/O. Who may request a transition is decided
// by the session role, not here.
package order
