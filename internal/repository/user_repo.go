package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/altibbe/transparency-api/internal/models"
)

// UserRepository handles data access for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns a single user by id.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns a single user by username.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE username = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, username); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The server assigns the id and creation timestamp.
func (r *UserRepository) Create(user *models.User) error {
	const q = `INSERT INTO users (username, password_hash)
               VALUES ($1, $2)
               RETURNING id, created_at`
	return r.db.QueryRowx(q, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
}

// EnsureUser returns the user with the given username, creating it with the
// provided password hash when missing. Used at boot to seed the demo user.
func (r *UserRepository) EnsureUser(username, passwordHash string) (*models.User, error) {
	u, err := r.GetByUsername(username)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	created := &models.User{Username: username, PasswordHash: passwordHash}
	if err := r.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}
