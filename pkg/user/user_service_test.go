package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserFixture(t *testing.T) (UserService, UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewUserRepository(db)
	return NewUserService(repo, jwt.NewJWTService()), repo
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	service, repo := newUserFixture(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, domain.RegisterRequest{
		FullName: "Pat Doe",
		Email:    "pat@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Verified {
		t.Fatal("fresh account should start unverified")
	}

	login := domain.LoginRequest{Email: "pat@example.com", Password: "hunter22"}
	if _, err := service.Login(ctx, login); !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	// A bad password is still reported as bad credentials, not as an
	// unverified account.
	bad := domain.LoginRequest{Email: "pat@example.com", Password: "wrong"}
	if _, err := service.Login(ctx, bad); !errors.Is(err, domain.ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}

	account, err := repo.GetUserByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	now := time.Now()
	account.Verified = true
	account.VerifiedAt = &now
	if err := repo.UpdateUser(ctx, account); err != nil {
		t.Fatalf("verify account: %v", err)
	}

	res, err := service.Login(ctx, login)
	if err != nil {
		t.Fatalf("login after verification: %v", err)
	}
	if res.Token == "" {
		t.Error("login returned empty token")
	}
	if res.Role != domain.RoleUser {
		t.Errorf("role = %q, want %q", res.Role, domain.RoleUser)
	}
}
