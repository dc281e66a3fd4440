package repositories

import (
	"encoding/json"
	"testing"

	"artbook_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// The containment needle must stay valid JSON whatever the category
// string contains.
func TestFindArtistIDsByCategory_QuotesCategory(t *testing.T) {
	t.Parallel()

	category := `fire "dancer"`
	wantNeedle, err := json.Marshal([]string{category})
	require.NoError(t, err)
	require.True(t, json.Valid(wantNeedle))

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .+ FROM "artist_profiles" JOIN users`).
		WithArgs(string(models.UserStatusActive), string(wantNeedle)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("artist-1"))

	repo := NewUserRepository()
	ids, err := repo.FindArtistIDsByCategory(db, category)
	require.NoError(t, err)

	assert.Equal(t, []string{"artist-1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
