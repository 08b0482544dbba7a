package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, password, role, phone, address, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func newUser(p models.UserPatch, now time.Time) models.User {
	base := models.User{
		ID:        uuid.New().String(),
		Role:      models.RoleCustomer,
		CreatedAt: now,
	}
	return base.Apply(p, now)
}

// CreateUser inserts a new user built from p.
func (s *Store) CreateUser(p models.UserPatch) (*models.User, error) {
	u := newUser(p, time.Now().UTC())

	_, err := s.db.Exec(
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.Phone, u.Address, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser merges p into the stored user inside one transaction.
func (s *Store) UpdateUser(id string, p models.UserPatch) (*models.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanUser(tx.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	next := current.Apply(p, time.Now().UTC())
	_, err = tx.Exec(
		`UPDATE users SET name = ?, email = ?, password = ?, role = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		next.Name, next.Email, next.Password, next.Role, next.Phone, next.Address, next.UpdatedAt, id,
	)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &next, nil
}

// DeleteUser removes a user. It reports false when no user had the id.
func (s *Store) DeleteUser(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountUsers returns the number of stored users.
func (s *Store) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
