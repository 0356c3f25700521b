package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a client's rating and comment for a provider. There is at most
// one review per (provider, client) pair.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"providerId"`
	ClientID   uuid.UUID `json:"clientId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewReview creates a review with a fresh ID, rejecting ratings outside 1..5.
func NewReview(providerID, clientID uuid.UUID, rating int, comment string) (*Review, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	return &Review{
		ID:         uuid.New(),
		ProviderID: providerID,
		ClientID:   clientID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// ValidateRating rejects ratings outside MinRating..MaxRating.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return NewValidationError("rating", "must be between 1 and 5", ErrInvalidRating)
	}
	return nil
}

// AverageRating returns the arithmetic mean of the review ratings, or 0 when
// there are none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// Reviewer is the public projection of the client who wrote a review.
type Reviewer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profileImage,omitempty"`
}

// ReviewWithReviewer is a review joined with its author.
type ReviewWithReviewer struct {
	Review
	Reviewer Reviewer `json:"reviewer"`
}

// ProviderListing is a catalog entry: a provider with the rating aggregate
// computed from the review store.
type ProviderListing struct {
	Provider      *Provider
	AverageRating float64
	ReviewCount   int
}

// RankListings drops listings whose average is below minRating (the
// boundary is inclusive) and sorts the rest by average rating, highest
// first. A nil minRating keeps every listing. Ties keep their input order.
func RankListings(listings []ProviderListing, minRating *float64) []ProviderListing {
	ranked := make([]ProviderListing, 0, len(listings))
	for _, l := range listings {
		if minRating != nil && l.AverageRating < *minRating {
			continue
		}
		ranked = append(ranked, l)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})
	return ranked
}
