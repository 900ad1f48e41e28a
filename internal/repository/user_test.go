package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kiosk-service/internal/entity"
)

var userRowColumns = []string{"id", "username", "password_hash", "first_name", "last_name", "email", "user_role_id", "role", "is_active"}

func TestGetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users u JOIN user_roles r ON r.id = u.user_role_id WHERE u.username = ?`)).
		WithArgs("thandi").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(1), "thandi", "$2a$10$hash", "Thandi", "Mokoena", "thandi@singular.co.za", int64(2), "SuperUser", true))

	user, err := repo.GetUserByUsername(context.Background(), "thandi")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, first_name, last_name, email, user_role_id, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'thandi'"})

	_, err = repo.CreateUser(context.Background(), &entity.User{Username: "thandi", UserRoleID: 1, IsActive: true})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRolesAndDeactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM user_roles ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "User").AddRow(int64(2), "SuperUser"))

	roles, err := repo.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.UserRole{{ID: 1, Name: "User"}, {ID: 2, Name: "SuperUser"}}, roles)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_active = 0 WHERE id = ?`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeactivateUser(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
