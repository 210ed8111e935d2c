package orderrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements OrderRepository using GORM. It runs on
// whatever connection it was given, usually a transaction from the unit of work.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order header and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", dto.ID, err)
		}
		return errs.NewStorageError("insert order", err)
	}
	return nil
}

// Get retrieves an order by tracking id.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.TrackingID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.TrackingID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.TrackingID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := preloadItems(db).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, errs.NewStorageError("select order", err)
	}

	o, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewStorageError("decode order", err)
	}
	return o, nil
}

// UpdateStatus writes the status column only.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().String()).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return errs.NewStorageError("update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return nil
}

// GetAll retrieves every order, newest first.
func (r *GormOrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := preloadItems(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&dtos).Error; err != nil {
		return nil, errs.NewStorageError("select orders", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, errs.NewStorageError("decode order", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// DeleteAll removes every order and line item.
func (r *GormOrderRepository) DeleteAll(ctx context.Context) error {
	db := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.Delete(&OrderItemDTO{}).Error; err != nil {
		return errs.NewStorageError("delete order items", err)
	}
	if err := db.Delete(&OrderDTO{}).Error; err != nil {
		return errs.NewStorageError("delete orders", err)
	}
	return nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
