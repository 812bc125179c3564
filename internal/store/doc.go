// Package store provides abstractions and implementations for data
// persistence: the Identity Store (users and point balances), the Catalog
// Store (listings), and the Swap Ledger (swap requests).
package store
