package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/ws"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (InventoryService, InventoryRepository, uuid.UUID) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}, &entities.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewInventoryRepository(db)
	return NewInventoryService(repo, nil, ws.NewEventBroadcaster(nil)), repo, uuid.New()
}

func TestAddItemDefaults(t *testing.T) {
	service, _, userID := newTestService(t)

	res, err := service.AddItem(context.Background(), domain.AddInventoryItemRequest{
		Name:     "Eggs",
		Quantity: 6,
		Category: "dairy",
		Expiry:   "2030-05-01",
	}, userID.String())
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if res.Status != domain.InventoryStatusActive {
		t.Errorf("status = %q, want active", res.Status)
	}
	if res.Reserved != 0 || res.Available != 6 {
		t.Errorf("reserved/available = %d/%d, want 0/6", res.Reserved, res.Available)
	}
	if res.Expiry == nil || res.Expiry.Format("2006-01-02") != "2030-05-01" {
		t.Errorf("expiry = %v", res.Expiry)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	service, _, userID := newTestService(t)
	ctx := context.Background()

	_, err := service.AddItem(ctx, domain.AddInventoryItemRequest{
		Name: "Eggs", Quantity: 6, Category: "dairy", Expiry: "next tuesday",
	}, userID.String())
	if !errors.Is(err, domain.ErrInvalidExpiryDate) {
		t.Errorf("expected ErrInvalidExpiryDate, got %v", err)
	}

	_, err = service.AddItem(ctx, domain.AddInventoryItemRequest{
		Name: "Eggs", Quantity: 0, Category: "dairy",
	}, userID.String())
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func seedReservedItem(t *testing.T, repo InventoryRepository, userID uuid.UUID, reserved int) *entities.InventoryItem {
	t.Helper()
	item := &entities.InventoryItem{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Eggs",
		Quantity: 6,
		Reserved: reserved,
		Status:   domain.InventoryStatusActive,
	}
	if reserved > 0 {
		item.Status = domain.InventoryStatusPlanned
	}
	if err := repo.AddItem(context.Background(), item); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestDestructiveActionsBlockedWhileReserved(t *testing.T) {
	service, repo, userID := newTestService(t)
	ctx := context.Background()
	item := seedReservedItem(t, repo, userID, 3)

	if err := service.DeleteItem(ctx, item.ID.String(), userID.String()); !errors.Is(err, domain.ErrItemReserved) {
		t.Errorf("delete: expected ErrItemReserved, got %v", err)
	}
	if err := service.MarkAsUsed(ctx, item.ID.String(), userID.String()); !errors.Is(err, domain.ErrItemReserved) {
		t.Errorf("mark used: expected ErrItemReserved, got %v", err)
	}

	// Shrinking quantity below the reserved amount is also blocked.
	two := 2
	err := service.UpdateItem(ctx, item.ID.String(), domain.UpdateInventoryItemRequest{Quantity: &two}, userID.String())
	if !errors.Is(err, domain.ErrItemReserved) {
		t.Errorf("shrink: expected ErrItemReserved, got %v", err)
	}
}

func TestMarkAsUsedIsTerminal(t *testing.T) {
	service, repo, userID := newTestService(t)
	ctx := context.Background()
	item := seedReservedItem(t, repo, userID, 0)

	if err := service.MarkAsUsed(ctx, item.ID.String(), userID.String()); err != nil {
		t.Fatalf("mark used: %v", err)
	}

	got, err := repo.GetItemByID(ctx, item.ID.String())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domain.InventoryStatusUsed || got.UsedAt == nil {
		t.Errorf("item = status %q usedAt %v", got.Status, got.UsedAt)
	}

	if err := service.MarkAsUsed(ctx, item.ID.String(), userID.String()); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("second mark used: expected ErrInvalidStatus, got %v", err)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	service, repo, userID := newTestService(t)
	ctx := context.Background()
	item := seedReservedItem(t, repo, userID, 0)
	stranger := uuid.New().String()

	if _, err := service.GetItemByID(ctx, item.ID.String(), stranger); !errors.Is(err, domain.ErrUnauthorizedAccess) {
		t.Errorf("get: expected ErrUnauthorizedAccess, got %v", err)
	}
	if err := service.DeleteItem(ctx, item.ID.String(), stranger); !errors.Is(err, domain.ErrUnauthorizedAccess) {
		t.Errorf("delete: expected ErrUnauthorizedAccess, got %v", err)
	}
	if _, err := service.GetItemByID(ctx, uuid.NewString(), userID.String()); !errors.Is(err, domain.ErrInventoryItemNotFound) {
		t.Errorf("missing: expected ErrInventoryItemNotFound, got %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	service, repo, userID := newTestService(t)
	ctx := context.Background()

	seedReservedItem(t, repo, userID, 0)
	seedReservedItem(t, repo, userID, 2)

	stats, err := service.GetDashboardStats(ctx, userID.String())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalItems != 2 {
		t.Errorf("totalItems = %d, want 2", stats.TotalItems)
	}
	if stats.PlannedItems != 1 || stats.ActiveItems != 1 {
		t.Errorf("planned/active = %d/%d, want 1/1", stats.PlannedItems, stats.ActiveItems)
	}
	if stats.TotalReserved != 2 {
		t.Errorf("totalReserved = %d, want 2", stats.TotalReserved)
	}
}
