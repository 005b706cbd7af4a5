package mealplan

import (
	"context"

	"smartfud/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	MealPlanRepository interface {
		GetPlan(ctx context.Context, userID string, weekKey string) (*entities.MealPlan, error)
		UpsertPlan(ctx context.Context, plan *entities.MealPlan) error
		WithTx(tx *gorm.DB) MealPlanRepository
	}

	mealPlanRepository struct {
		db *gorm.DB
	}
)

func NewMealPlanRepository(db *gorm.DB) MealPlanRepository {
	return &mealPlanRepository{db: db}
}

func (r *mealPlanRepository) WithTx(tx *gorm.DB) MealPlanRepository {
	return &mealPlanRepository{db: tx}
}

func (r *mealPlanRepository) GetPlan(ctx context.Context, userID string, weekKey string) (*entities.MealPlan, error) {
	var plan entities.MealPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_key = ?", userID, weekKey).
		Take(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *mealPlanRepository) UpsertPlan(ctx context.Context, plan *entities.MealPlan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"week_start", "slots", "updated_at"}),
	}).Create(plan).Error
}
