package repo

import (
	"context"

	"github.com/gr-satt/bordem/internal/entity"
	"gorm.io/gorm"
)

type BalanceRepo interface {
	Create(ctx context.Context, snapshot entity.BalanceSnapshot) (int64, error)
	Latest(ctx context.Context) (entity.BalanceSnapshot, error)
	FindBreached(ctx context.Context) ([]entity.BalanceSnapshot, error)
}

type balanceRepo struct {
	db *gorm.DB
}

func NewBalanceRepo(db *gorm.DB) BalanceRepo {
	return &balanceRepo{
		db: db,
	}
}

func (r *balanceRepo) Create(ctx context.Context, snapshot entity.BalanceSnapshot) (int64, error) {
	err := r.db.WithContext(ctx).Create(&snapshot).Error
	if err != nil {
		return 0, err
	}
	return snapshot.Id, nil
}

func (r *balanceRepo) Latest(ctx context.Context) (entity.BalanceSnapshot, error) {
	var snapshot entity.BalanceSnapshot
	err := r.db.WithContext(ctx).Order("id desc").First(&snapshot).Error
	if err != nil {
		return entity.BalanceSnapshot{}, err
	}
	return snapshot, nil
}

func (r *balanceRepo) FindBreached(ctx context.Context) ([]entity.BalanceSnapshot, error) {
	var snapshots []entity.BalanceSnapshot
	err := r.db.WithContext(ctx).Where("breached = ?", true).Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
