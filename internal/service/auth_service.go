package service

import (
	"parkhaus/internal/auth"
	"parkhaus/internal/db"
	"parkhaus/internal/errors"
	"parkhaus/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(email, password, phone, role string) error
	Login(email, password, role string) (string, error)
}

type authService struct {
	accounts repository.AccountStore
	secret   string
	now      func() time.Time
}

func NewAuthService(accounts repository.AccountStore, secret string) AuthService {
	return &authService{accounts: accounts, secret: secret, now: time.Now}
}

func (s *authService) Signup(email, password, phone, role string) error {
	if email == "" || password == "" {
		return errors.Validation("email and password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal(err.Error())
	}

	switch role {
	case auth.RoleAdmin:
		err = s.accounts.CreateAdmin(&db.Admin{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    s.now().UTC(),
		})
	case auth.RoleDriver:
		err = s.accounts.CreateDriver(&db.Driver{
			ID:           uuid.NewString(),
			Email:        email,
			Phone:        phone,
			PasswordHash: string(hash),
			CreatedAt:    s.now().UTC(),
		})
	default:
		return errors.Validation("role must be driver or admin")
	}

	if err != nil {
		if err == repository.ErrDuplicateEmail {
			return errors.Conflict("email already registered")
		}
		return errors.Internal(err.Error())
	}
	return nil
}

func (s *authService) Login(email, password, role string) (string, error) {
	var id, passwordHash string

	switch role {
	case auth.RoleAdmin:
		admin, err := s.accounts.GetAdminByEmail(email)
		if err != nil {
			return "", errors.Internal(err.Error())
		}
		if admin == nil {
			return "", errors.Forbidden("invalid credentials")
		}
		id, passwordHash = admin.ID, admin.PasswordHash
	case auth.RoleDriver:
		driver, err := s.accounts.GetDriverByEmail(email)
		if err != nil {
			return "", errors.Internal(err.Error())
		}
		if driver == nil {
			return "", errors.Forbidden("invalid credentials")
		}
		id, passwordHash = driver.ID, driver.PasswordHash
	default:
		return "", errors.Validation("role must be driver or admin")
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return "", errors.Forbidden("invalid credentials")
	}

	claims := jwt.MapClaims{
		"sub":  id,
		"role": role,
		"exp":  s.now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Internal(err.Error())
	}
	return signed, nil
}
