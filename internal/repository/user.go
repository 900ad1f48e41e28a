package repository

import (
	"context"
	"database/sql"

	"kiosk-service/internal/entity"
)

const userColumns = `u.id, u.username, u.password_hash, u.first_name, u.last_name, u.email, u.user_role_id, r.name, u.is_active`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func scanUser(row rowScanner) (*entity.User, error) {
	user := &entity.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Email, &user.UserRoleID, &user.Role, &user.IsActive)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u JOIN user_roles r ON r.id = u.user_role_id WHERE u.id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u JOIN user_roles r ON r.id = u.user_role_id WHERE u.username = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users u JOIN user_roles r ON r.id = u.user_role_id ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UsernameTaken reports whether a user other than excludeID already has username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ? AND id <> ?`, username, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (username, password_hash, first_name, last_name, email, user_role_id, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Email, user.UserRoleID, user.IsActive)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `UPDATE users SET username = ?, password_hash = ?, first_name = ?, last_name = ?, email = ?, user_role_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Email, user.UserRoleID, user.ID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// DeactivateUser soft-deletes a user so its transactions keep a valid owner.
func (r *UserRepository) DeactivateUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = 0 WHERE id = ?`, id)
	return err
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]entity.UserRole, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM user_roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []entity.UserRole{}
	for rows.Next() {
		var role entity.UserRole
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *UserRepository) GetRoleByName(ctx context.Context, name string) (*entity.UserRole, error) {
	role := &entity.UserRole{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM user_roles WHERE name = ?`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, translate(err)
	}
	return role, nil
}
