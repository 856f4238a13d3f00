package order

import (
	"storefront/domain/order"
)

// AdminView full representation, including the owner and item ids
func AdminView(o *order.Order) *OrderResponse {
	resp := baseView(o)
	resp.OwnerID = o.OwnerID()
	resp.OwnerName = o.OwnerName()
	for i, item := range o.Items() {
		resp.Items[i].ID = item.ID()
	}
	return resp
}

// OwnerView what a customer sees of their own order
func OwnerView(o *order.Order) *OrderResponse {
	return baseView(o)
}

// viewFor picks the representation by the requester's role
func viewFor(requester order.Requester) func(*order.Order) *OrderResponse {
	if requester != nil && requester.IsAdmin() {
		return AdminView
	}
	return OwnerView
}

func viewAll(orders []*order.Order, view func(*order.Order) *OrderResponse) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = view(o)
	}
	return out
}

func baseView(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			Subtotal:    item.Subtotal().String(),
		}
	}

	return &OrderResponse{
		ID:            o.ID(),
		Code:          o.Code(),
		Status:        string(o.Status()),
		StatusDisplay: o.Status().Label(),
		CancelReason:  o.CancelReason(),
		TotalPrice:    o.TotalPrice().String(),
		Items:         items,
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}
