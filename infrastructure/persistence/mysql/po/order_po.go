package po

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO Order persistence object
// Only used for database mapping; no GORM associations, items are loaded explicitly
type OrderPO struct {
	ID           string          `gorm:"primaryKey;size:36"`
	Code         string          `gorm:"size:8;not null;uniqueIndex:uk_orders_code"`
	OwnerID      string          `gorm:"size:64;not null;index:idx_orders_owner_created,priority:1"`
	OwnerName    string          `gorm:"size:128;not null;default:''"`
	Status       string          `gorm:"size:20;not null;index"`
	CancelReason string          `gorm:"type:text"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Version      int             `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"precision:6;not null;index:idx_orders_owner_created,priority:2"`
	UpdatedAt    time.Time       `gorm:"precision:6;not null"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
// product_name and unit_price are the catalog values captured at creation
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:36"`
	OrderID     string          `gorm:"size:36;not null;index"`
	ProductID   string          `gorm:"size:64;not null"`
	ProductName string          `gorm:"size:255;not null;default:''"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:           o.ID(),
		Code:         o.Code(),
		OwnerID:      o.OwnerID(),
		OwnerName:    o.OwnerName(),
		Status:       string(o.Status()),
		CancelReason: o.CancelReason(),
		TotalPrice:   o.TotalPrice().Amount(),
		Version:      o.Version(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Amount(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence objects to domain model
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO) (*order.Order, error) {
	items := make([]order.OrderItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		price, err := shared.NewMoney(itemPO.UnitPrice)
		if err != nil {
			return nil, err
		}
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          itemPO.ID,
			ProductID:   itemPO.ProductID,
			ProductName: itemPO.ProductName,
			Quantity:    itemPO.Quantity,
			UnitPrice:   price,
		})
	}

	total, err := shared.NewMoney(p.TotalPrice)
	if err != nil {
		return nil, err
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:           p.ID,
		Code:         p.Code,
		OwnerID:      p.OwnerID,
		OwnerName:    p.OwnerName,
		Items:        items,
		TotalPrice:   total,
		Status:       order.Status(p.Status),
		CancelReason: p.CancelReason,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}), nil
}
