package order

import (
	"errors"
	"testing"

	"storefront/domain/shared"
)

func mustOrder(t *testing.T, items ...ItemRequest) *Order {
	t.Helper()
	o, err := NewOrder("ABCD1234", Owner{ID: "user-1", Name: "Dana"}, items)
	if err != nil {
		t.Fatalf("NewOrder failed: %v", err)
	}
	return o
}

func TestNewOrderComputesTotal(t *testing.T) {
	o := mustOrder(t,
		ItemRequest{ProductID: "p1", Quantity: 2, UnitPrice: shared.MustMoney("10.50")},
		ItemRequest{ProductID: "p2", Quantity: 3, UnitPrice: shared.MustMoney("0.99")},
	)

	want := shared.MustMoney("23.97")
	if !o.TotalPrice().Equals(want) {
		t.Errorf("TotalPrice = %s, want %s", o.TotalPrice(), want)
	}
	if o.OwnerID() != "user-1" || o.OwnerName() != "Dana" {
		t.Errorf("owner = %s/%s, want user-1/Dana", o.OwnerID(), o.OwnerName())
	}
	if o.Status() != StatusPending {
		t.Errorf("Status = %s, want pending", o.Status())
	}
	if !o.IsNew() || o.Version() != 0 {
		t.Errorf("new order should be unpersisted with version 0")
	}
	if o.ID() == "" || o.Items()[0].ID() == "" {
		t.Error("ids should be assigned")
	}
	if o.CancelReason() != "" {
		t.Errorf("CancelReason = %q, want empty", o.CancelReason())
	}
}

func TestNewOrderValidation(t *testing.T) {
	price := shared.MustMoney("1.00")
	tests := []struct {
		name     string
		code     string
		owner    string
		items    []ItemRequest
		sentinel error
	}{
		{"empty items", "ABCD1234", "u", nil, ErrEmptyOrderItems},
		{"zero quantity", "ABCD1234", "u", []ItemRequest{{ProductID: "p", Quantity: 0, UnitPrice: price}}, ErrInvalidQuantity},
		{"negative quantity", "ABCD1234", "u", []ItemRequest{{ProductID: "p", Quantity: -2, UnitPrice: price}}, ErrInvalidQuantity},
		{"huge quantity", "ABCD1234", "u", []ItemRequest{{ProductID: "p", Quantity: MaxItemQuantity + 1, UnitPrice: price}}, ErrInvalidQuantity},
		{"total overflow", "ABCD1234", "u", []ItemRequest{{ProductID: "p", Quantity: 2, UnitPrice: shared.MustMoney("9999999999.99")}}, ErrInvalidOrder},
		{"missing product", "ABCD1234", "u", []ItemRequest{{Quantity: 1, UnitPrice: price}}, ErrInvalidOrder},
		{"missing owner", "ABCD1234", "", []ItemRequest{{ProductID: "p", Quantity: 1, UnitPrice: price}}, ErrInvalidOrder},
		{"bad code", "abc", "u", []ItemRequest{{ProductID: "p", Quantity: 1, UnitPrice: price}}, ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.code, Owner{ID: tt.owner}, tt.items)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("error %v should be classified as invalid input", err)
			}
			var stacker shared.Stacker
			if !errors.As(err, &stacker) || len(stacker.Stack()) == 0 {
				t.Error("validation errors should carry a stack")
			}
		})
	}
}

func TestRecomputeTotalCorrectsDrift(t *testing.T) {
	items := []OrderItem{
		RebuildItemFromDTO(ItemReconstructionDTO{ID: "i1", ProductID: "p1", Quantity: 4, UnitPrice: shared.MustMoney("2.50")}),
	}
	o := RebuildFromDTO(ReconstructionDTO{
		ID:         "o1",
		Code:       "ABCD1234",
		OwnerID:    "u1",
		Items:      items,
		TotalPrice: shared.MustMoney("99.00"),
		Status:     StatusPending,
		Version:    3,
	})

	if !o.RecomputeTotal() {
		t.Fatal("RecomputeTotal should report a correction")
	}
	if !o.TotalPrice().Equals(shared.MustMoney("10")) {
		t.Errorf("TotalPrice = %s, want 10.00", o.TotalPrice())
	}
	if o.RecomputeTotal() {
		t.Error("second RecomputeTotal should be a no-op")
	}
	if o.IsNew() {
		t.Error("rebuilt orders are not new")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	o := mustOrder(t, ItemRequest{ProductID: "p1", Quantity: 1, UnitPrice: shared.MustMoney("5")})
	items := o.Items()
	items[0] = OrderItem{}
	if o.Items()[0].ProductID() != "p1" {
		t.Error("mutating Items() result must not affect the aggregate")
	}
}

func TestStatusLabels(t *testing.T) {
	if StatusPending.Label() != "Awaiting pickup" || StatusCompleted.Label() != "Received" || StatusCancelled.Label() != "Cancelled" {
		t.Error("unexpected status labels")
	}
	if Status("shipped").IsValid() {
		t.Error("shipped is not a known status")
	}
	if StatusPending.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("terminal flags wrong")
	}
}
