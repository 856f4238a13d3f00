package po

import (
	"time"

	"storefront/domain/catalog"
	"storefront/domain/shared"

	"github.com/shopspring/decimal"
)

// ProductPO the catalog columns orders read
type ProductPO struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProductDomain(p *catalog.Product) *ProductPO {
	return &ProductPO{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.Amount(),
	}
}

func (p *ProductPO) ToDomain() (*catalog.Product, error) {
	price, err := shared.NewMoney(p.Price)
	if err != nil {
		return nil, err
	}
	return &catalog.Product{ID: p.ID, Name: p.Name, Price: price}, nil
}
