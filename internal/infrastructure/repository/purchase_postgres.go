package repository

import (
	"context"

	"coursemarket/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "create purchase")
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err, "purchase %s", id)
	}
	return &p, nil
}

// TransitionStatus is a compare-and-set on status. It reports false when the purchase
// was no longer in the expected state, so a terminal state is never overwritten.
func (r *PurchaseRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.PurchaseStatus) (bool, error) {
	if !from.CanTransition(to) {
		return false, errors.Errorf("illegal purchase transition %s -> %s", from, to)
	}
	res := r.db.WithContext(ctx).Model(&domain.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "transition purchase %s", id)
	}
	return res.RowsAffected == 1, nil
}
