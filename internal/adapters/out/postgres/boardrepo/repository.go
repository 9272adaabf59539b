package boardrepo

import (
	"context"
	"errors"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/core/domain/model/order"
	"comanda/internal/core/ports"
	"comanda/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var _ ports.BoardStore = (*GormBoardRepository)(nil)

// GormBoardRepository implements ports.BoardStore using GORM.
type GormBoardRepository struct {
	db *gorm.DB
}

func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	return &GormBoardRepository{db: db}
}

// Migrate creates or updates the board tables.
func (r *GormBoardRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&OrderDTO{}, &LineItemDTO{})
}

// Replace swaps the board of one kind inside a single transaction, so readers
// see either the old board or the new one.
func (r *GormBoardRepository) Replace(ctx context.Context, kind order.Kind, orders []*order.Order) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if o.Kind() != kind {
			return errs.NewValueIsInvalidError("order kind")
		}
		dtos = append(dtos, fromDomain(o))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_kind = ?", int(kind)).Delete(&LineItemDTO{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ?", int(kind)).Delete(&OrderDTO{}).Error; err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}
		return tx.Create(&dtos).Error
	})
}

// Save overwrites one order together with its line items.
func (r *GormBoardRepository) Save(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	dto := fromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_kind = ? AND order_id = ?", dto.Kind, dto.ID).Delete(&LineItemDTO{}).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND id = ?", dto.Kind, dto.ID).Delete(&OrderDTO{}).Error; err != nil {
			return err
		}
		return tx.Create(&dto).Error
	})
}

func (r *GormBoardRepository) Get(ctx context.Context, kind order.Kind, id kernel.ID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&dto, "kind = ? AND id = ?", int(kind), id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormBoardRepository) List(ctx context.Context, kind order.Kind, statuses []order.Status) ([]*order.Order, error) {
	if len(statuses) == 0 {
		return []*order.Order{}, nil
	}

	codes := make([]int64, 0, len(statuses))
	for _, s := range statuses {
		codes = append(codes, int64(s))
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("kind = ? AND status = ANY(?)", int(kind), pq.Array(codes)).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}
