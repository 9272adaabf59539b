// Package kernel provides the value objects shared by the order and session models.
//
// The package includes:
//   - ID: the opaque identifier the restaurant backend assigns to orders, products and users
//   - Money: a non-negative decimal amount (prices, totals, payments)
//   - UUID: locally generated identifiers for sessions and published events
//
// Values are immutable and validated at construction.
package kernel
