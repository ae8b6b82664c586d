package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"parkhaus/internal/db"
)

// ErrDuplicateEmail marks a unique-constraint hit on an account email.
var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(database *sql.DB) *AccountRepository {
	return &AccountRepository{DB: database}
}

func (r *AccountRepository) CreateAdmin(a *db.Admin) error {
	query := `INSERT INTO admins (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.Exec(query, a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error inserting admin: %w", err)
	}
	return nil
}

func (r *AccountRepository) CreateDriver(d *db.Driver) error {
	query := `INSERT INTO drivers (id, email, phone, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.Exec(query, d.ID, d.Email, d.Phone, d.PasswordHash, d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error inserting driver: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetAdminByEmail(email string) (*db.Admin, error) {
	var a db.Admin
	err := r.DB.QueryRow(`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetDriverByEmail(email string) (*db.Driver, error) {
	var d db.Driver
	err := r.DB.QueryRow(`SELECT id, email, phone, password_hash, created_at FROM drivers WHERE email = $1`, email).
		Scan(&d.ID, &d.Email, &d.Phone, &d.PasswordHash, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *AccountRepository) GetAdmin(id string) (*db.Admin, error) {
	var a db.Admin
	err := r.DB.QueryRow(`SELECT id, email, password_hash, created_at FROM admins WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetDriver(id string) (*db.Driver, error) {
	var d db.Driver
	err := r.DB.QueryRow(`SELECT id, email, phone, password_hash, created_at FROM drivers WHERE id = $1`, id).
		Scan(&d.ID, &d.Email, &d.Phone, &d.PasswordHash, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
