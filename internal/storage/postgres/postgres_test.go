package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sendesk/sendesk/internal/storage"
	"github.com/sendesk/sendesk/internal/storage/postgres"
	"github.com/sendesk/sendesk/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	db := setupTestDB(t)

	storagetest.Run(t, storagetest.Harness{
		New: func(t *testing.T) storage.Storage {
			cleanupTestData(db)
			return postgres.New(db)
		},
		ExpireResetToken: func(t *testing.T, s storage.Storage, userID int64) {
			res, err := db.Exec(
				"UPDATE users SET reset_token_expiry = now() - interval '1 minute' WHERE id = $1",
				userID)
			require.NoError(t, err)
			affected, err := res.RowsAffected()
			require.NoError(t, err)
			require.EqualValues(t, 1, affected)
		},
	})
}
