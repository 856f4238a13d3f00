/*
Package order Application Layer - order use cases

The service resolves prices from the catalog, draws order codes, and runs
every write inside a unit of work:
  - creation redraws the code and retries when the unique index rejects it
  - updates re-read the order on every attempt so optimistic lock retries
    validate against fresh state
*/
package order

import (
	"context"
	"errors"
	"fmt"

	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Recorder receives business counters. *metrics.Registry satisfies it.
type Recorder interface {
	OrderCreated()
	OrderTransitioned(from, to string)
	CodeCollision()
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated()                 {}
func (nopRecorder) OrderTransitioned(_, _ string) {}
func (nopRecorder) CodeCollision()                {}

// ApplicationService Order application service
type ApplicationService struct {
	orders   order.Repository
	catalog  catalog.Reader
	uow      shared.UnitOfWork
	codes    *order.CodeGenerator
	workflow *order.Workflow
	metrics  Recorder
}

// NewApplicationService codes may be nil, in which case codes are drawn
// without a pre-insert existence check.
func NewApplicationService(
	orders order.Repository,
	products catalog.Reader,
	uow shared.UnitOfWork,
	codes *order.CodeGenerator,
	metrics Recorder,
) *ApplicationService {
	if codes == nil {
		codes = order.NewCodeGenerator(nil)
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &ApplicationService{
		orders:   orders,
		catalog:  products,
		uow:      uow,
		codes:    codes,
		workflow: order.NewWorkflow(),
		metrics:  metrics,
	}
}

// ListOrders administrators see every order, others only their own.
// Newest first.
func (s *ApplicationService) ListOrders(ctx context.Context, requester order.Requester, status order.Status) ([]*OrderResponse, error) {
	if requester == nil {
		return nil, shared.NewUnauthorizedError("authentication required")
	}
	if status != "" && !status.IsValid() {
		return nil, order.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	var spec shared.Specification[*order.Order] = order.NewByOwnerSpecification(requester.IdentityID())
	if requester.IsAdmin() {
		spec = shared.All[*order.Order]()
	}
	if status != "" {
		spec = shared.And(spec, order.NewByStatusSpecification(status))
	}

	orders, err := s.orders.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return viewAll(orders, viewFor(requester)), nil
}

// GetOrderByCode administrator lookup of any order
func (s *ApplicationService) GetOrderByCode(ctx context.Context, requester order.Requester, code string) (*OrderResponse, error) {
	if requester == nil {
		return nil, shared.NewUnauthorizedError("authentication required")
	}
	if !requester.IsAdmin() {
		return nil, shared.NewForbiddenError("order", "only administrators can look up orders by code")
	}

	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return AdminView(o), nil
}

// GetOwnOrder owners read their own orders. Orders of other owners are
// reported as not found.
func (s *ApplicationService) GetOwnOrder(ctx context.Context, requester order.Requester, code string) (*OrderResponse, error) {
	if requester == nil {
		return nil, shared.NewUnauthorizedError("authentication required")
	}

	o, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !o.IsOwnedBy(requester.IdentityID()) {
		return nil, order.NewOrderNotFoundError(code)
	}
	return viewFor(requester)(o), nil
}

// CreateOrder prices the items from the catalog and stores the order under
// a fresh code. A code taken between drawing and inserting is redrawn
// until the insert succeeds or ctx ends.
func (s *ApplicationService) CreateOrder(ctx context.Context, requester order.Requester, req CreateOrderRequest) (*OrderResponse, error) {
	if requester == nil {
		return nil, shared.NewUnauthorizedError("authentication required")
	}
	if len(req.Items) == 0 {
		return nil, order.NewEmptyOrderItemsError()
	}
	for i, item := range req.Items {
		if item.Quantity < 1 || item.Quantity > order.MaxItemQuantity {
			return nil, order.NewInvalidQuantityError(i, item.Quantity)
		}
	}

	requests, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	for {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return nil, err
		}

		o, err := order.NewOrder(code, order.Owner{ID: requester.IdentityID(), Name: requester.DisplayName()}, requests)
		if err != nil {
			return nil, err
		}

		err = s.uow.Execute(ctx, func(ctx context.Context) error {
			return s.orders.Save(ctx, o)
		})
		if errors.Is(err, order.ErrDuplicateCode) {
			s.metrics.CodeCollision()
			log.Debug("Order code collision, redrawing", zap.String("code", code))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.metrics.OrderCreated()
		log.Info("Order created",
			zap.String("order_id", o.ID()),
			zap.String("code", o.Code()),
			zap.String("owner_id", o.OwnerID()),
			zap.String("total_price", o.TotalPrice().String()),
		)
		return viewFor(requester)(o), nil
	}
}

// priceItems snapshots the current catalog name and price of every product
func (s *ApplicationService) priceItems(ctx context.Context, items []CreateOrderItem) ([]order.ItemRequest, error) {
	requests := make([]order.ItemRequest, len(items))
	for i, item := range items {
		p, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		requests[i] = order.ItemRequest{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
		}
	}
	return requests, nil
}

// UpdateOrder applies a partial status/cancel_reason update.
// The order is re-read on every unit of work attempt.
func (s *ApplicationService) UpdateOrder(ctx context.Context, requester order.Requester, code string, patch order.Patch) (*OrderResponse, error) {
	var (
		updated    *order.Order
		transition order.Transition
	)

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		t, err := s.workflow.Apply(o, requester, patch)
		if err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		updated, transition = o, t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transition.Changed() {
		s.metrics.OrderTransitioned(transition.From.String(), transition.To.String())
	}
	logger.FromContext(ctx).Info("Order updated",
		zap.String("code", code),
		zap.String("from", transition.From.String()),
		zap.String("to", transition.To.String()),
		zap.Int("version", updated.Version()),
	)
	return AdminView(updated), nil
}

// RecomputeTotal re-derives the stored total of one order from its items.
// Returns whether the stored value was corrected.
func (s *ApplicationService) RecomputeTotal(ctx context.Context, code string) (bool, error) {
	var changed bool
	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		changed = o.RecomputeTotal()
		if !changed {
			return nil
		}
		return s.orders.Save(ctx, o)
	})
	if err != nil {
		return false, err
	}
	if changed {
		logger.FromContext(ctx).Warn("Order total corrected", zap.String("code", code))
	}
	return changed, nil
}
