package services

import (
	"context"
	"strings"

	"safari/internal/auth"
	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Admins    AdminStore
	Issuer    *auth.Issuer
	RequestID string
}

// Login checks admin credentials and returns a signed access token.
// Unknown email, wrong password and disabled accounts all fail the same way.
func (s AuthService) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.LoginResult{}, domain.ValidationError{Msg: "email and password are required"}
	}

	admin, err := s.Admins.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "auth", "login", "unknown account")
			return models.LoginResult{}, domain.UnauthorizedError{Err: err}
		}
		return models.LoginResult{}, domain.InternalError{Err: err}
	}
	if admin.Status != "active" {
		utils.LogEventf(s.RequestID, "auth", "login", "admin_id=%d disabled", admin.ID)
		return models.LoginResult{}, domain.UnauthorizedError{}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		utils.LogEventf(s.RequestID, "auth", "login", "admin_id=%d bad password", admin.ID)
		return models.LoginResult{}, domain.UnauthorizedError{Err: err}
	}

	token, err := s.Issuer.Issue(admin)
	if err != nil {
		return models.LoginResult{}, domain.InternalError{Msg: "could not issue token", Err: err}
	}
	utils.LogEventf(s.RequestID, "auth", "login", "admin_id=%d ok", admin.ID)
	return models.LoginResult{Token: token, Admin: admin}, nil
}

// EnsureAdmin creates the bootstrap admin when that email is not registered yet.
func (s AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.Admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	id, err := s.Admins.Create(ctx, models.Admin{
		Name:         utils.FirstNonEmpty(name, "Administrator"),
		Email:        email,
		PasswordHash: hash,
		Role:         "admin",
		Status:       "active",
	})
	if err != nil {
		return err
	}
	utils.LogEventf("", "auth", "bootstrap", "admin_id=%d created", id)
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
