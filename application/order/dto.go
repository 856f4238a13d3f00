package order

import "time"

// CreateOrderRequest 创建订单入参。Owner is always the caller.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItem one line of a new order; the price comes from the catalog
type CreateOrderItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=10000"`
}

// OrderResponse 订单返回模型。
// Owner fields and item IDs are only filled for administrators.
type OrderResponse struct {
	ID            string              `json:"id"`
	Code          string              `json:"code"`
	OwnerID       string              `json:"owner_id,omitempty"`
	OwnerName     string              `json:"owner_name,omitempty"`
	Status        string              `json:"status"`
	StatusDisplay string              `json:"status_display"`
	CancelReason  string              `json:"cancel_reason"`
	TotalPrice    string              `json:"total_price"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderItemResponse 订单项返回模型。
type OrderItemResponse struct {
	ID          string `json:"id,omitempty"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}
