//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/postgres"
	"github.com/phrazzld/cleanconnect-api/internal/store"
	"github.com/phrazzld/cleanconnect-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresProviderStore_HourlyRateDerivedOnWrite(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProviderStore(tx, nil)

		provider, err := domain.NewProvider("Dana", "Cohen", uniqueEmail("rate"), "052", testPasswordHash, "",
			[]domain.ServiceType{domain.ServiceHome}, []string{"Haifa"}, 10,
			[]domain.ServiceDetail{{Type: domain.ServiceHome, HourlyRate: 50}, {Type: domain.ServiceOffice, HourlyRate: 75.555}})
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, provider))

		stored, err := s.GetByID(ctx, provider.ID)
		require.NoError(t, err)
		assert.Equal(t, 62.78, stored.HourlyRate)

		updated, err := s.Update(ctx, provider.ID, func(p *domain.Provider) error {
			p.ServiceDetails = []domain.ServiceDetail{{Type: "bureau", HourlyRate: 40}}
			p.HourlyRate = 999
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 40.0, updated.HourlyRate)
		assert.Equal(t, domain.ServiceOffice, updated.ServiceDetails[0].Type)

		stored, err = s.GetByID(ctx, provider.ID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, stored.HourlyRate)
	})
}

func TestPostgresProviderStore_ListAllOrdering(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProviderStore(tx, nil)

		low := createTestProvider(t, tx, []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
		high := createTestProvider(t, tx, []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
		_, err := tx.ExecContext(ctx, `UPDATE providers SET rating = 4.5 WHERE id = $1`, high.ID)
		require.NoError(t, err)

		all, err := s.ListAll(ctx)
		require.NoError(t, err)

		pos := map[uuid.UUID]int{}
		for i, p := range all {
			pos[p.ID] = i
		}
		assert.Less(t, pos[high.ID], pos[low.ID], "higher stored rating sorts first")
	})
}

func TestPostgresProviderStore_SearchAggregatesReviews(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProviderStore(tx, nil)
		reviews := postgres.NewPostgresReviewStore(tx, nil)

		area := "Area-" + uuid.NewString()[:8]
		home := createTestProvider(t, tx, []domain.ServiceType{domain.ServiceHome}, []string{area})
		office, err := domain.NewProvider("Omer", "Katz", uniqueEmail("office"), "052", testPasswordHash, "",
			[]domain.ServiceType{domain.ServiceBuilding}, []string{area}, 0,
			[]domain.ServiceDetail{{Type: domain.ServiceOffice, HourlyRate: 70}})
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, office))
		elsewhere := createTestProvider(t, tx, []domain.ServiceType{domain.ServiceHome}, []string{"Elsewhere"})

		for _, rating := range []int{5, 3, 4} {
			client := createTestClient(t, tx, "Reviewer")
			review, err := domain.NewReview(home.ID, client.ID, rating, "")
			require.NoError(t, err)
			_, err = reviews.Upsert(ctx, review)
			require.NoError(t, err)
		}

		listings, err := s.Search(ctx, store.ProviderFilter{ServiceArea: area})
		require.NoError(t, err)
		require.Len(t, listings, 2)
		byID := map[uuid.UUID]domain.ProviderListing{}
		for _, l := range listings {
			byID[l.Provider.ID] = l
		}
		assert.InDelta(t, 4.0, byID[home.ID].AverageRating, 1e-9)
		assert.Equal(t, 3, byID[home.ID].ReviewCount)
		assert.Equal(t, 0.0, byID[office.ID].AverageRating)
		assert.NotContains(t, byID, elsewhere.ID)

		officeListings, err := s.Search(ctx, store.ProviderFilter{ServiceType: domain.ServiceOffice, ServiceArea: area})
		require.NoError(t, err)
		require.Len(t, officeListings, 1, "service type matches service details as well as service types")
		assert.Equal(t, office.ID, officeListings[0].Provider.ID)

		none, err := s.Search(ctx, store.ProviderFilter{ServiceType: "window", ServiceArea: area})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestPostgresProviderStore_NotFoundAndDuplicate(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProviderStore(tx, nil)

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrProviderNotFound)

		_, err = s.Update(ctx, uuid.New(), func(p *domain.Provider) error { return nil })
		assert.ErrorIs(t, err, store.ErrProviderNotFound)

		existing := createTestProvider(t, tx, []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
		dup, err := domain.NewProvider("X", "Y", existing.Email, "052", testPasswordHash, "",
			[]domain.ServiceType{domain.ServiceHome}, []string{"Haifa"}, 10, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(ctx, dup), store.ErrEmailExists)
	})
}
