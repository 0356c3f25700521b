package mocks

import "github.com/phrazzld/cleanconnect-api/internal/domain"

// The in-memory stores hand out copies so callers cannot mutate stored
// state without going through Update.

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneClient(c *domain.Client) *domain.Client {
	cp := *c
	cp.Addresses = cloneSlice(c.Addresses)
	return &cp
}

func cloneProvider(p *domain.Provider) *domain.Provider {
	cp := *p
	cp.ServiceTypes = cloneSlice(p.ServiceTypes)
	cp.ServiceDetails = cloneSlice(p.ServiceDetails)
	cp.ServiceAreas = cloneSlice(p.ServiceAreas)
	cp.Availability = cloneSlice(p.Availability)
	cp.LegacyReviews = cloneSlice(p.LegacyReviews)
	cp.Certifications = cloneSlice(p.Certifications)
	return &cp
}

func cloneJob(j *domain.JobRequest) *domain.JobRequest {
	cp := *j
	if j.Price != nil {
		price := *j.Price
		cp.Price = &price
	}
	if j.CompletedAt != nil {
		at := *j.CompletedAt
		cp.CompletedAt = &at
	}
	return &cp
}
