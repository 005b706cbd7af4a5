package donation

import (
	"context"

	"smartfud/domain"
	"smartfud/entities"

	"gorm.io/gorm"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.DonationListing) error
		GetDonationByID(ctx context.Context, id string) (*entities.DonationListing, error)
		GetDonationsByUser(ctx context.Context, userID string) ([]*entities.DonationListing, error)
		GetAllDonations(ctx context.Context) ([]*entities.DonationListing, error)
		UpdateDonation(ctx context.Context, donation *entities.DonationListing) error
		RedeemDonation(ctx context.Context, id string, fields map[string]interface{}) (int64, error)
		DeleteDonation(ctx context.Context, id string) error
		WithTx(tx *gorm.DB) DonationRepository
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) WithTx(tx *gorm.DB) DonationRepository {
	return &donationRepository{db: tx}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.DonationListing) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.DonationListing, error) {
	var donation entities.DonationListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetDonationsByUser(ctx context.Context, userID string) ([]*entities.DonationListing, error) {
	var donations []*entities.DonationListing
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) GetAllDonations(ctx context.Context) ([]*entities.DonationListing, error) {
	var donations []*entities.DonationListing
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) UpdateDonation(ctx context.Context, donation *entities.DonationListing) error {
	return r.db.WithContext(ctx).Save(donation).Error
}

// RedeemDonation writes only the redemption fields so a concurrent edit to the
// listing body is never clobbered by the redeeming side. The status predicate
// makes the write exclusive: under concurrent redeemers only the first UPDATE
// matches a row, and the caller must treat zero rows affected as already
// redeemed.
func (r *donationRepository) RedeemDonation(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.DonationListing{}).
		Where("id = ? AND status <> ?", id, domain.DonationStatusRedeemed).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *donationRepository) DeleteDonation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.DonationListing{}).Error
}
