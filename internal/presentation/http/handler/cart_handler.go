package handler

import (
	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/request"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CartHandler handles the open tickets of the counter
type CartHandler struct {
	cartService *service.CartService
	saleService *service.SaleService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, saleService *service.SaleService) *CartHandler {
	return &CartHandler{cartService: cartService, saleService: saleService}
}

// Create handles opening a new ticket
func (h *CartHandler) Create(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.CreateCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	kind := entity.CartKindSale
	if req.Kind != "" {
		kind = entity.CartKind(req.Kind)
	}

	response.Created(c, "Cart created successfully", h.cartService.Create(session, kind))
}

// Get handles reading a ticket with its totals
func (h *CartHandler) Get(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	view, err := h.cartService.Summary(session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved successfully", view)
}

// Delete handles discarding a ticket
func (h *CartHandler) Delete(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	if err := h.cartService.Delete(session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddItem handles a scan or a pick from the search results
func (h *CartHandler) AddItem(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var (
		view *service.CartView
		err  error
	)
	switch {
	case req.ProductID > 0:
		view, err = h.cartService.AddProduct(c.Request.Context(), session, c.Param("id"), req.ProductID)
	case req.Token != "":
		view, err = h.cartService.AddByToken(c.Request.Context(), session, c.Param("id"), req.Token)
	default:
		response.BadRequest(c, "token or product_id is required")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added", view)
}

// SetQuantity handles editing the quantity of a line
func (h *CartHandler) SetQuantity(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.cartService.SetQuantity(session, c.Param("id"), productID, string(req.Quantity))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", view)
}

// RemoveItem handles dropping a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	view, err := h.cartService.Remove(session, c.Param("id"), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product removed", view)
}

// Clear handles emptying a ticket
func (h *CartHandler) Clear(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	view, err := h.cartService.Clear(session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", view)
}

// SetPayment handles choosing the payment method and the cash received
func (h *CartHandler) SetPayment(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.cartService.SetPayment(session, c.Param("id"), *req.PaymentMethod, req.AmountTendered)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", view)
}

// SetCustomer handles naming the customer of a quotation ticket
func (h *CartHandler) SetCustomer(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.cartService.SetCustomer(session, c.Param("id"), req.Customer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer updated", view)
}

// Submit handles charging a ticket. The response carries the sale, the
// payment result and the receipt to print.
func (h *CartHandler) Submit(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		return
	}

	result, err := h.saleService.Submit(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale registered successfully", result)
}
