// Package domain contains the marketplace entities: the two identity kinds
// (clients and providers), job requests and reviews, together with the pure
// rules that govern them such as the derived provider hourly rate and the
// service-type vocabulary. It has no knowledge of storage or transport.
package domain
