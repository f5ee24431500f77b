package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    *domain.User
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			user: &domain.User{
				Name:         "Ada",
				Email:        "ada@example.com",
				PasswordHash: "hash",
				Salt:         "salt",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Ada", "ada@example.com", "hash", "salt", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "db error",
			user: &domain.User{Name: "Ada", Email: "ada@example.com"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			err = repo.Create(ctx, tt.user)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func userRows(now time.Time, session, conn any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "salt",
		"session_token", "connection_id", "created_at", "updated_at",
	}).AddRow("user-1", "Ada", "ada@example.com", "hash", "salt", session, conn, now, now)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found with live session", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("ada@example.com").
			WillReturnRows(userRows(now, "tok-1", "conn-1"))

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, "user-1", u.ID)
		require.NotNil(t, u.SessionToken)
		require.Equal(t, "tok-1", *u.SessionToken)
		require.NotNil(t, u.ConnectionID)
		require.Equal(t, "conn-1", *u.ConnectionID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null session and connection", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("ada@example.com").
			WillReturnRows(userRows(now, nil, nil))

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Nil(t, u.SessionToken)
		require.Nil(t, u.ConnectionID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs("user-1").
		WillReturnRows(userRows(now, nil, nil))

	repo := NewUserRepository(db)
	u, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateSessionToken(t *testing.T) {
	ctx := context.Background()
	token := "tok-2"

	tests := []struct {
		name    string
		token   *string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:  "set token",
			token: &token,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET session_token`).
					WithArgs(&token, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "clear token",
			token: nil,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET session_token`).
					WithArgs(nil, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:  "unknown user",
			token: &token,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET session_token`).
					WithArgs(&token, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			err = repo.UpdateSessionToken(ctx, "user-1", tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdateConnectionID(t *testing.T) {
	ctx := context.Background()
	connID := "conn-7"

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET connection_id`).
		WithArgs(&connID, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET connection_id`).
		WithArgs(nil, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUserRepository(db)
	require.NoError(t, repo.UpdateConnectionID(ctx, "user-1", &connID))
	require.NoError(t, repo.UpdateConnectionID(ctx, "user-1", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
