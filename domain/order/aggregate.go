/*
Package order Order subdomain

The order aggregate owns its line items and the derived total. Items are created
together with the order and never added or removed afterwards; the only mutations
after creation are status and cancel reason changes driven by the Workflow.

Rules kept by the aggregate:
1. totalPrice always equals the sum of quantity * unitPrice over the items
2. unitPrice is the catalog price at creation time and is never refreshed
3. code is assigned once and never changes
4. quantity is within [1, MaxItemQuantity] and the total fits MaxTotalPrice
*/
package order

import (
	"fmt"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

const (
	// MaxItemQuantity upper bound of a single line item's quantity
	MaxItemQuantity = 10000
)

// MaxTotalPrice largest total the orders.total_price column can hold
var MaxTotalPrice = shared.MustMoney("9999999999.99")

// Order aggregate root
type Order struct {
	id           string
	code         string
	ownerID      string
	ownerName    string
	items        []OrderItem
	totalPrice   shared.Money
	status       Status
	cancelReason string
	version      int // optimistic lock version
	createdAt    time.Time
	updatedAt    time.Time

	isNew bool // not yet persisted
}

// OrderItem entity inside the aggregate, reachable only through Order
type OrderItem struct {
	id          string
	productID   string
	productName string
	quantity    int
	unitPrice   shared.Money
}

// Owner the identity placing the order. Name is a display snapshot taken at
// creation and may be empty.
type Owner struct {
	ID   string
	Name string
}

// ItemRequest a line item whose name and price were already resolved from
// the catalog
type ItemRequest struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewOrder creates a pending order with the given code and priced items.
// Prices must already be resolved; the aggregate snapshots them as-is.
func NewOrder(code string, owner Owner, requests []ItemRequest) (*Order, error) {
	if owner.ID == "" {
		return nil, NewValidationError("owner", "order owner is required")
	}
	if !IsValidCode(code) {
		return nil, NewValidationError("code", fmt.Sprintf("order code %q is malformed", code))
	}
	if len(requests) == 0 {
		return nil, NewEmptyOrderItemsError()
	}

	items := make([]OrderItem, len(requests))
	for i, req := range requests {
		if req.ProductID == "" {
			return nil, NewValidationError(fmt.Sprintf("items[%d].product_id", i), "product id is required")
		}
		if req.Quantity < 1 || req.Quantity > MaxItemQuantity {
			return nil, NewInvalidQuantityError(i, req.Quantity)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}

		items[i] = OrderItem{
			id:          id.String(),
			productID:   req.ProductID,
			productName: req.ProductName,
			quantity:    req.Quantity,
			unitPrice:   req.UnitPrice,
		}
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now()
	o := &Order{
		id:        orderID.String(),
		code:      code,
		ownerID:   owner.ID,
		ownerName: owner.Name,
		items:     items,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	o.totalPrice = o.sumItems()
	if o.totalPrice.GreaterThan(MaxTotalPrice) {
		return nil, NewValidationError("items", fmt.Sprintf("order total %s exceeds the maximum of %s", o.totalPrice, MaxTotalPrice))
	}

	return o, nil
}

// ============================================================================
// ReconstructionDTO - repository use only
// ============================================================================

// ReconstructionDTO rebuilds an Order from storage without re-running creation rules
type ReconstructionDTO struct {
	ID           string
	Code         string
	OwnerID      string
	OwnerName    string
	Items        []OrderItem
	TotalPrice   shared.Money
	Status       Status
	CancelReason string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RebuildFromDTO reconstructs an Order loaded from storage.
// The stored total is kept so a drifted row stays visible to RecomputeTotal.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:           dto.ID,
		code:         dto.Code,
		ownerID:      dto.OwnerID,
		ownerName:    dto.OwnerName,
		items:        dto.Items,
		totalPrice:   dto.TotalPrice,
		status:       dto.Status,
		cancelReason: dto.CancelReason,
		version:      dto.Version,
		createdAt:    dto.CreatedAt,
		updatedAt:    dto.UpdatedAt,
	}
}

// ItemReconstructionDTO order item reconstruction data
type ItemReconstructionDTO struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

// RebuildItemFromDTO rebuilds an OrderItem loaded from storage
func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:          dto.ID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
	}
}

// ============================================================================
// Behavior
// ============================================================================

// RecomputeTotal derives totalPrice from the current items.
// Returns true when the stored total differed and was corrected.
func (o *Order) RecomputeTotal() bool {
	total := o.sumItems()
	if total.Equals(o.totalPrice) {
		return false
	}
	o.totalPrice = total
	o.updatedAt = time.Now()
	return true
}

func (o *Order) sumItems() shared.Money {
	total := shared.Zero()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// applyPatch is called by the Workflow after all rules passed.
func (o *Order) applyPatch(status Status, reason *string) {
	o.status = status
	if reason != nil {
		o.cancelReason = *reason
	}
	o.updatedAt = time.Now()
}

// IncrementVersionForSave is called by the repository after a successful save
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// MarkPersisted clears the new flag after the first insert
func (o *Order) MarkPersisted() {
	o.isNew = false
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string      { return o.id }
func (o *Order) Code() string    { return o.code }
func (o *Order) OwnerID() string { return o.ownerID }

// OwnerName as known when the order was placed
func (o *Order) OwnerName() string { return o.ownerName }

// Items returns a copy of the order items
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}
func (o *Order) TotalPrice() shared.Money { return o.totalPrice }
func (o *Order) Status() Status           { return o.status }
func (o *Order) CancelReason() string     { return o.cancelReason }
func (o *Order) Version() int             { return o.version }
func (o *Order) CreatedAt() time.Time     { return o.createdAt }
func (o *Order) UpdatedAt() time.Time     { return o.updatedAt }

// IsNew reports whether the order has not been persisted yet
func (o *Order) IsNew() bool { return o.isNew }

// IsOwnedBy reports whether the identity id owns this order
func (o *Order) IsOwnedBy(identityID string) bool { return o.ownerID == identityID }

func (item OrderItem) ID() string              { return item.id }
func (item OrderItem) ProductID() string       { return item.productID }
func (item OrderItem) ProductName() string     { return item.productName }
func (item OrderItem) Quantity() int           { return item.quantity }
func (item OrderItem) UnitPrice() shared.Money { return item.unitPrice }

// Subtotal quantity * unit price
func (item OrderItem) Subtotal() shared.Money { return item.unitPrice.Multiply(item.quantity) }

var _ shared.AggregateRoot = (*Order)(nil)
