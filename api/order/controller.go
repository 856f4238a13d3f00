/*
Package order - 订单 API 控制器

错误处理原则:
1. 请求体绑定/校验错误: response.HandleValidationError 返回 400
2. 业务错误: response.HandleAppError 按错误分类映射状态码
*/
package order

import (
	"encoding/json"

	"storefront/api/ctxutil"
	"storefront/api/response"
	orderapp "storefront/application/order"
	"storefront/domain/order"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	RegisterValidators()
	return &Controller{orderService: orderService}
}

// codeURI path parameter of the single-order routes
type codeURI struct {
	Code string `uri:"code" binding:"required,ordercode"`
}

// RegisterRoutes routes are registered under an already authenticated group
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.GET("", c.ListOrders)
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/search/:code", c.GetOrderByCode)
		orderGroup.GET("/:code", c.GetOwnOrder)
		orderGroup.PATCH("/:code", c.UpdateOrder)
	}
}

// requester 未认证时返回 401
func requester(ctx *gin.Context) (order.Requester, bool) {
	id, ok := ctxutil.Identity(ctx)
	if !ok {
		response.HandleAppError(ctx, errors.Unauthorized("authentication required"))
		return nil, false
	}
	return id, true
}

// bindCode malformed codes cannot exist, so they are reported as not found
func bindCode(ctx *gin.Context) (string, bool) {
	var uri codeURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		response.HandleAppError(ctx, order.NewOrderNotFoundError(ctx.Param("code")))
		return "", false
	}
	return uri.Code, true
}

// ListOrders GET /api/v1/orders[?status=pending|completed|cancelled]
func (c *Controller) ListOrders(ctx *gin.Context) {
	who, ok := requester(ctx)
	if !ok {
		return
	}

	orders, err := c.orderService.ListOrders(ctx.Request.Context(), who, order.Status(ctx.Query("status")))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "ok")
}

// CreateOrder POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	who, ok := requester(ctx)
	if !ok {
		return
	}

	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleValidationError(ctx, err, "invalid order request", fieldErrors(err))
		return
	}

	created, err := c.orderService.CreateOrder(ctx.Request.Context(), who, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, created, "order created")
}

// GetOrderByCode GET /api/v1/orders/search/:code (admin)
func (c *Controller) GetOrderByCode(ctx *gin.Context) {
	who, ok := requester(ctx)
	if !ok {
		return
	}
	if !who.IsAdmin() {
		response.HandleAppError(ctx, errors.Forbidden("only administrators can look up orders by code"))
		return
	}
	code, ok := bindCode(ctx)
	if !ok {
		return
	}

	found, err := c.orderService.GetOrderByCode(ctx.Request.Context(), who, code)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, found, "ok")
}

// GetOwnOrder GET /api/v1/orders/:code
func (c *Controller) GetOwnOrder(ctx *gin.Context) {
	who, ok := requester(ctx)
	if !ok {
		return
	}
	code, ok := bindCode(ctx)
	if !ok {
		return
	}

	found, err := c.orderService.GetOwnOrder(ctx.Request.Context(), who, code)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, found, "ok")
}

// UpdateOrder PATCH /api/v1/orders/:code
// Body is a JSON object holding any subset of status and cancel_reason.
func (c *Controller) UpdateOrder(ctx *gin.Context) {
	who, ok := requester(ctx)
	if !ok {
		return
	}
	code, ok := bindCode(ctx)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&raw); err != nil || raw == nil {
		response.HandleValidationError(ctx, err, "request body must be a JSON object", nil)
		return
	}

	updated, err := c.orderService.UpdateOrder(ctx.Request.Context(), who, code, orderapp.DecodePatch(raw))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, updated, "order updated")
}
