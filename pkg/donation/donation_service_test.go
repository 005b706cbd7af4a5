package donation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smartfud/domain"
	"smartfud/entities"
	"smartfud/internal/ws"
	"smartfud/pkg/inventory"
	"smartfud/pkg/notification"
	"smartfud/pkg/user"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type donationFixture struct {
	db      *gorm.DB
	service DonationService
	invRepo inventory.InventoryRepository
	donRepo DonationRepository
	ntfRepo notification.NotificationRepository
	donor   *entities.User
	other   *entities.User
}

func newDonationFixture(t *testing.T) *donationFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.InventoryItem{},
		&entities.DonationListing{},
		&entities.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	invRepo := inventory.NewInventoryRepository(db)
	donRepo := NewDonationRepository(db)
	userRepo := user.NewUserRepository(db)
	ntfRepo := notification.NewNotificationRepository(db)
	events := ws.NewEventBroadcaster(nil)

	f := &donationFixture{
		db:      db,
		service: NewDonationService(db, donRepo, invRepo, userRepo, ntfRepo, events),
		invRepo: invRepo,
		donRepo: donRepo,
		ntfRepo: ntfRepo,
		donor:   &entities.User{ID: uuid.New(), FullName: "Donor Dane", Email: "donor@example.com"},
		other:   &entities.User{ID: uuid.New(), FullName: "Recipient Rae", Email: "rae@example.com"},
	}
	for _, u := range []*entities.User{f.donor, f.other} {
		if err := userRepo.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	return f
}

func (f *donationFixture) addItem(t *testing.T, owner uuid.UUID, name string, quantity, reserved int) *entities.InventoryItem {
	t.Helper()
	item := &entities.InventoryItem{
		ID:       uuid.New(),
		UserID:   owner,
		Name:     name,
		Quantity: quantity,
		Reserved: reserved,
		Category: "bakery",
		Status:   domain.InventoryStatusActive,
	}
	if reserved > 0 {
		item.Status = domain.InventoryStatusPlanned
	}
	if err := f.invRepo.AddItem(context.Background(), item); err != nil {
		t.Fatalf("add item: %v", err)
	}
	return item
}

func TestConvertFromInventoryIsAtomic(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)

	req := domain.ConvertDonationRequest{
		ItemID:         item.ID.String(),
		PickupLocation: "Front porch",
		Availability:   "Weekends",
	}
	res, err := f.service.ConvertFromInventory(ctx, req, f.donor.ID.String())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if res.Status != domain.DonationStatusActive {
		t.Errorf("listing status = %q, want active", res.Status)
	}
	if res.OwnerFullName != "Donor Dane" {
		t.Errorf("owner name = %q", res.OwnerFullName)
	}
	if res.Quantity != 4 || res.Name != "Bread" {
		t.Errorf("listing = %+v, want Bread x4", res)
	}

	// The item is gone; the listing exists. Never both, never neither.
	if _, err := f.invRepo.GetItemByID(ctx, item.ID.String()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("converted item still in inventory: %v", err)
	}
	if _, err := f.donRepo.GetDonationByID(ctx, res.ID); err != nil {
		t.Errorf("listing missing after convert: %v", err)
	}
}

func TestConvertBlockedWhileReserved(t *testing.T) {
	f := newDonationFixture(t)
	item := f.addItem(t, f.donor.ID, "Eggs", 6, 2)

	req := domain.ConvertDonationRequest{
		ItemID:         item.ID.String(),
		PickupLocation: "Front porch",
		Availability:   "Weekends",
	}
	_, err := f.service.ConvertFromInventory(context.Background(), req, f.donor.ID.String())
	if !errors.Is(err, domain.ErrItemReserved) {
		t.Fatalf("expected ErrItemReserved, got %v", err)
	}
	if _, err := f.invRepo.GetItemByID(context.Background(), item.ID.String()); err != nil {
		t.Errorf("blocked convert removed the item: %v", err)
	}
}

func TestConvertRequiresOwnership(t *testing.T) {
	f := newDonationFixture(t)
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)

	req := domain.ConvertDonationRequest{
		ItemID:         item.ID.String(),
		PickupLocation: "Front porch",
		Availability:   "Weekends",
	}
	_, err := f.service.ConvertFromInventory(context.Background(), req, f.other.ID.String())
	if !errors.Is(err, domain.ErrUnauthorizedAccess) {
		t.Fatalf("expected ErrUnauthorizedAccess, got %v", err)
	}
}

func (f *donationFixture) convert(t *testing.T, item *entities.InventoryItem) domain.DonationResponse {
	t.Helper()
	res, err := f.service.ConvertFromInventory(context.Background(), domain.ConvertDonationRequest{
		ItemID:         item.ID.String(),
		PickupLocation: "Front porch",
		Availability:   "Weekends",
	}, item.UserID.String())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return res
}

func TestRedeemDonationTransfersOwnership(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)
	listing := f.convert(t, item)

	res, err := f.service.RedeemDonation(ctx, domain.RedeemDonationRequest{
		OwnerID:    f.donor.ID.String(),
		DonationID: listing.ID,
	}, f.other.ID.String())
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	gained, err := f.invRepo.GetItemByID(ctx, res.InventoryItemID)
	if err != nil {
		t.Fatalf("recipient item missing: %v", err)
	}
	if gained.UserID != f.other.ID {
		t.Errorf("item owner = %s, want recipient", gained.UserID)
	}
	if gained.Quantity != 4 || gained.Reserved != 0 || gained.Status != domain.InventoryStatusActive {
		t.Errorf("item = qty %d reserved %d status %q, want 4/0/active",
			gained.Quantity, gained.Reserved, gained.Status)
	}
	if gained.FromDonationID == nil || gained.FromDonationID.String() != listing.ID {
		t.Errorf("provenance fromDonationId = %v", gained.FromDonationID)
	}
	if gained.FromUserID == nil || *gained.FromUserID != f.donor.ID {
		t.Errorf("provenance fromUserId = %v", gained.FromUserID)
	}

	redeemed, err := f.donRepo.GetDonationByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("listing missing: %v", err)
	}
	if redeemed.Status != domain.DonationStatusRedeemed {
		t.Errorf("listing status = %q", redeemed.Status)
	}
	if redeemed.RedeemedBy == nil || *redeemed.RedeemedBy != f.other.ID {
		t.Errorf("redeemedBy = %v", redeemed.RedeemedBy)
	}
	if redeemed.RedeemedAt == nil {
		t.Error("redeemedAt unset")
	}
	// Listing body survives redemption for the audit trail.
	if redeemed.Name != "Bread" || redeemed.PickupLocation != "Front porch" {
		t.Errorf("redemption clobbered listing body: %+v", redeemed)
	}

	// Donor got exactly one notification.
	notifications, err := f.ntfRepo.GetNotifications(ctx, f.donor.ID.String(), 0)
	if err != nil {
		t.Fatalf("donor notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("donor has %d notifications, want 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != domain.NotificationTypeDonationRedeemed {
		t.Errorf("notification type = %q", n.Type)
	}
	if n.RedeemedBy == nil || *n.RedeemedBy != f.other.ID {
		t.Errorf("notification redeemedBy = %v", n.RedeemedBy)
	}
}

func TestRedeemDonationRejectsDoubleRedemption(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)
	listing := f.convert(t, item)

	req := domain.RedeemDonationRequest{OwnerID: f.donor.ID.String(), DonationID: listing.ID}
	if _, err := f.service.RedeemDonation(ctx, req, f.other.ID.String()); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	third := &entities.User{ID: uuid.New(), FullName: "Third", Email: "third@example.com"}
	if err := user.NewUserRepository(f.db).CreateUser(ctx, third); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := f.service.RedeemDonation(ctx, req, third.ID.String())
	if !errors.Is(err, domain.ErrAlreadyRedeemed) {
		t.Fatalf("expected ErrAlreadyRedeemed, got %v", err)
	}
}

// The redeemed marker is written with a status guard so only one of two
// concurrent redeemers can flip the listing, whatever both saw when they read
// it. The second UPDATE matches zero rows and the service rolls back with
// ErrAlreadyRedeemed.
func TestRedeemDonationGuardedUpdateWinsOnce(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)
	listing := f.convert(t, item)

	now := time.Now()
	fields := map[string]interface{}{
		"status":      domain.DonationStatusRedeemed,
		"redeemed_by": f.other.ID,
		"redeemed_at": now,
	}
	affected, err := f.donRepo.RedeemDonation(ctx, listing.ID, fields)
	if err != nil {
		t.Fatalf("redeem update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first update affected %d rows, want 1", affected)
	}

	affected, err = f.donRepo.RedeemDonation(ctx, listing.ID, fields)
	if err != nil {
		t.Fatalf("second redeem update: %v", err)
	}
	if affected != 0 {
		t.Errorf("second update affected %d rows, want 0", affected)
	}

	redeemed, err := f.donRepo.GetDonationByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if redeemed.RedeemedBy == nil || *redeemed.RedeemedBy != f.other.ID {
		t.Errorf("redeemedBy = %v, want first redeemer", redeemed.RedeemedBy)
	}
}

func TestRedeemDonationRejectsSelfRedemption(t *testing.T) {
	f := newDonationFixture(t)
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)
	listing := f.convert(t, item)

	_, err := f.service.RedeemDonation(context.Background(), domain.RedeemDonationRequest{
		OwnerID:    f.donor.ID.String(),
		DonationID: listing.ID,
	}, f.donor.ID.String())
	if !errors.Is(err, domain.ErrSelfRedemption) {
		t.Fatalf("expected ErrSelfRedemption, got %v", err)
	}
}

func TestRedeemDonationRejectsExpiredListing(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	expired := time.Now().AddDate(0, 0, -2)
	listing := &entities.DonationListing{
		ID:             uuid.New(),
		UserID:         f.donor.ID,
		OwnerFullName:  f.donor.FullName,
		Name:           "Old yoghurt",
		Quantity:       1,
		Expiry:         &expired,
		PickupLocation: "Front porch",
		Availability:   "Anytime",
		Status:         domain.DonationStatusActive,
	}
	if err := f.donRepo.CreateDonation(ctx, listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	_, err := f.service.RedeemDonation(ctx, domain.RedeemDonationRequest{
		OwnerID:    f.donor.ID.String(),
		DonationID: listing.ID.String(),
	}, f.other.ID.String())
	if !errors.Is(err, domain.ErrListingExpired) {
		t.Fatalf("expected ErrListingExpired, got %v", err)
	}
}

func TestUpdateDonationBlockedAfterRedemption(t *testing.T) {
	f := newDonationFixture(t)
	ctx := context.Background()
	item := f.addItem(t, f.donor.ID, "Bread", 4, 0)
	listing := f.convert(t, item)

	if _, err := f.service.RedeemDonation(ctx, domain.RedeemDonationRequest{
		OwnerID:    f.donor.ID.String(),
		DonationID: listing.ID,
	}, f.other.ID.String()); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	err := f.service.UpdateDonation(ctx, listing.ID, domain.UpdateDonationRequest{Name: "Fresh bread"}, f.donor.ID.String())
	if !errors.Is(err, domain.ErrRedeemedImmutable) {
		t.Fatalf("expected ErrRedeemedImmutable, got %v", err)
	}

	// The owner may still delete a redeemed listing to tidy their history.
	if err := f.service.DeleteDonation(ctx, listing.ID, f.donor.ID.String()); err != nil {
		t.Fatalf("delete redeemed listing: %v", err)
	}
}
