// Package aggregates implements the persistence side of the domain
// aggregate contracts: transaction ownership, error mapping, and the
// invariant-enforcing write flows.
package aggregates
