// Package store defines the persistence contracts of the marketplace: one
// interface per aggregate (clients, providers, job requests, reviews) plus
// the sentinel errors implementations translate their driver errors into.
// Services depend only on these interfaces.
package store
