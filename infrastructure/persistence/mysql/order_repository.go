package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"
	"storefront/infrastructure/persistence/specification"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlErrDuplicateEntry = 1062

// isDuplicateKeyError recognises unique violations from MySQL, from GORM's
// translated error and from sqlite (used by tests)
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate entry") ||
		strings.Contains(errStr, "UNIQUE constraint failed")
}

// OrderRepository GORM implementation of order.Repository
// Items are written and read explicitly; GORM associations are not used.
type OrderRepository struct {
	db         *gorm.DB
	translator *specification.OrderTranslator
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, translator: specification.NewOrderTranslator()}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save joins the unit of work transaction when present, otherwise opens its own
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return order.NewDuplicateCodeError(o.Code())
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}
		if err := tx.Create(&itemPOs).Error; err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
		o.MarkPersisted()
		return nil
	}

	// items never change after creation, only the order row is updated
	expectedVersion := o.Version()
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":        orderPO.Status,
			"cancel_reason": orderPO.CancelReason,
			"total_price":   orderPO.TotalPrice,
			"version":       expectedVersion + 1,
			"updated_at":    orderPO.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.Code())
		}
		return order.NewConcurrentModificationError(o.ID())
	}

	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	db := r.getDB(ctx)

	var orderPO po.OrderPO
	if err := db.Where("code = ?", code).Take(&orderPO).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(code)
		}
		return nil, err
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", orderPO.ID).Order("id").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	return orderPO.ToDomain(itemPOs)
}

// FindBySpecification newest first; ids are UUIDv7 so they break created_at ties
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	scope, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)
	var orderPOs []po.OrderPO
	if err := db.Model(&po.OrderPO{}).
		Scopes(scope).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]string, len(orderPOs))
	for i, p := range orderPOs {
		ids[i] = p.ID
	}
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("id").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		o, err := orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
		if err != nil {
			return nil, err
		}
		orders[i] = o
	}
	return orders, nil
}

func (r *OrderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&po.OrderPO{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ order.Repository = (*OrderRepository)(nil)
