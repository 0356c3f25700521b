//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/postgres"
	"github.com/phrazzld/cleanconnect-api/internal/store"
	"github.com/phrazzld/cleanconnect-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresClientStore_CreateAndGet(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresClientStore(tx, nil)
		client := createTestClient(t, tx, "Noa")

		byID, err := s.GetByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client.Email, byID.Email)
		assert.Equal(t, client.PasswordHash, byID.PasswordHash)
		require.Len(t, byID.Addresses, 1)
		assert.Equal(t, domain.DefaultCountry, byID.Addresses[0].Country)

		byEmail, err := s.GetByEmail(ctx, "  "+strings.ToUpper(client.Email)+" ")
		require.NoError(t, err)
		assert.Equal(t, client.ID, byEmail.ID)

		_, err = s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrClientNotFound)
	})
}

func TestPostgresClientStore_DuplicateEmail(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresClientStore(tx, nil)
		first := createTestClient(t, tx, "Noa")

		dup, err := domain.NewClient("Other", "Person", strings.ToUpper(first.Email), "050", testPasswordHash, "", nil)
		require.NoError(t, err)

		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestPostgresClientStore_Update(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresClientStore(tx, nil)
		client := createTestClient(t, tx, "Noa")

		updated, err := s.Update(ctx, client.ID, func(c *domain.Client) error {
			c.Phone = "0509999999"
			c.AddAddress(domain.Address{Street: "5 Dizengoff", City: "Tel Aviv", ZipCode: "64332", IsDefault: true})
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "0509999999", updated.Phone)

		reloaded, err := s.GetByID(ctx, client.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Addresses, 2)
		assert.False(t, reloaded.Addresses[0].IsDefault, "adding a default address clears the previous default")
		assert.True(t, reloaded.Addresses[1].IsDefault)

		abort := errors.New("abort")
		_, err = s.Update(ctx, client.ID, func(c *domain.Client) error {
			c.Phone = "never stored"
			return abort
		})
		assert.ErrorIs(t, err, abort)

		_, err = s.Update(ctx, uuid.New(), func(c *domain.Client) error { return nil })
		assert.ErrorIs(t, err, store.ErrClientNotFound)
	})
}
