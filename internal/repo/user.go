package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/fileserve/internal/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// pqUniqueViolation is the Postgres error code for a unique constraint violation.
const pqUniqueViolation = "23505"

var (
	// ErrNotFound is returned when no user matches the given id or username.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when an insert or update hits the unique
	// username constraint. The constraint is the authority on duplicates;
	// there is no check-then-insert in application code.
	ErrDuplicate = errors.New("username already exists")
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash
	`

	user := &models.User{}

	err = r.DB.QueryRowContext(ctx, query, username, string(hash)).
		Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// ==========================
// Update User
// ==========================
// Update changes the username and, when password is non-empty, replaces the
// stored hash.
func (r *UserRepo) Update(ctx context.Context, id int, username, password string) (*models.User, error) {
	user := &models.User{}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		query := `
			UPDATE users
			SET username = $1, password_hash = $2
			WHERE id = $3
			RETURNING id, username, password_hash
		`
		err = r.DB.QueryRowContext(ctx, query, username, string(hash), id).
			Scan(&user.ID, &user.Username, &user.PasswordHash)
		if err != nil {
			return nil, translate(err)
		}
		return user, nil
	}

	query := `
		UPDATE users
		SET username = $1
		WHERE id = $2
		RETURNING id, username, password_hash
	`

	err := r.DB.QueryRowContext(ctx, query, username, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash)

	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// translate maps driver-level errors to the repo sentinels.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicate
	}
	return err
}
