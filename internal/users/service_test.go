package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kinderkitchen/kinderkitchen-backend/pkg/db/models"
	"github.com/kinderkitchen/kinderkitchen-backend/pkg/enums"
	pkgerrors "github.com/kinderkitchen/kinderkitchen-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAndListUsers(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, "Greta", enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := svc.Create(ctx, "Oskar", enums.UserRoleCook); err != nil {
		t.Fatalf("create cook: %v", err)
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 users, got %d", len(rows))
	}

	got, err := svc.Get(ctx, admin.ID)
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if got.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role: %s", got.Role)
	}
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "  ", enums.UserRoleCook); err == nil {
		t.Fatal("expected empty name to be rejected")
	}
	if _, err := svc.Create(ctx, "Greta", enums.UserRole("chef")); err == nil {
		t.Fatal("expected invalid role to be rejected")
	}
}

func TestGetMissingUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
