package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkrajewski/task-manager-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash"}).
		AddRow(1, "user@example.com", "bcrypt-hash")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(rows)

	user, err := repo.FindByEmail("user@example.com")
	require.NoError(t, err)
	require.Equal(t, uint64(1), user.ID)
	require.Equal(t, "user@example.com", user.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}))

	_, err := repo.FindByEmail("nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_HasToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `auth_tokens` WHERE user_id = \\? AND token = \\?").
		WithArgs(uint64(1), "session-token").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	valid, err := repo.HasToken(1, "session-token")
	require.NoError(t, err)
	require.True(t, valid)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RemoveToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `auth_tokens` WHERE user_id = \\? AND token = \\?").
		WithArgs(uint64(1), "session-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RemoveToken(1, "session-token"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AddToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `auth_tokens`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.AddToken(&models.AuthToken{UserID: 1, Token: "session-token"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
