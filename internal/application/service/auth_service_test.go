package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backend/internal/domain/entity"
	"github.com/sangkips/pos-backend/internal/infrastructure/repository/memory"
	"github.com/sangkips/pos-backend/pkg/apperror"
	"github.com/sangkips/pos-backend/pkg/utils"
)

func newAuthService(t *testing.T) (*AuthService, *utils.JWTManager, entity.User) {
	t.Helper()
	hashed, err := utils.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := entity.User{ID: uuid.New(), Name: "Till One", Email: "till1@example.com", Password: hashed, Role: entity.RoleCashier}
	s := memory.New(nil)
	s.AddUser(user)
	jwtManager := utils.NewJWTManager("test-secret", time.Minute, time.Hour)
	return NewAuthService(memory.NewUnitOfWork(s).Users(), jwtManager), jwtManager, user
}

func TestLogin(t *testing.T) {
	auth, jwtManager, user := newAuthService(t)
	out, err := auth.Login(context.Background(), &LoginInput{Email: " Till1@Example.com ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != entity.RoleCashier {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _, _ := newAuthService(t)
	for _, in := range []LoginInput{
		{Email: "till1@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "s3cret-pass"},
	} {
		if _, err := auth.Login(context.Background(), &in); !errors.Is(err, apperror.ErrInvalidCredentials) {
			t.Fatalf("login %s: %v", in.Email, err)
		}
	}
}

func TestRefreshToken(t *testing.T) {
	auth, jwtManager, user := newAuthService(t)
	out, err := auth.Login(context.Background(), &LoginInput{Email: user.Email, Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	refreshed, err := auth.RefreshToken(context.Background(), out.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := jwtManager.ValidateAccessToken(refreshed.AccessToken); err != nil {
		t.Fatalf("refreshed token invalid: %v", err)
	}
	if _, err := auth.RefreshToken(context.Background(), out.AccessToken+"x"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("bad refresh err = %v", err)
	}
}
