// Package testdb provides utilities for tests that need a real PostgreSQL
// database.
//
// Tests obtain a migrated connection with GetTestDBWithT, which skips the test
// when no database URL is configured, and isolate themselves with WithTx:
//
//	func TestMyFeature(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			s := postgres.NewPostgresProviderStore(tx, nil)
//			// ...
//		})
//	}
//
// The transaction is always rolled back, so tests never see each other's rows.
package testdb
