package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sendesk/sendesk/internal/models"
	"github.com/sendesk/sendesk/internal/storage"
	"github.com/sendesk/sendesk/internal/storage/storagetest"
)

func TestStorageContract(t *testing.T) {
	storagetest.Run(t, storagetest.Harness{
		New: func(t *testing.T) storage.Storage {
			return New()
		},
		ExpireResetToken: func(t *testing.T, s storage.Storage, userID int64) {
			user := s.(*Store).users[userID]
			require.NotNil(t, user)
			expired := time.Now().Add(-time.Minute)
			user.ResetTokenExpiry = models.NullTimeFrom(&expired)
		},
	})
}
