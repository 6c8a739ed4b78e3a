package order

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cbcshop/backend/internal/httpx"
)

// maxAllocAttempts bounds the re-allocate-and-retry loop on order id
// conflicts before a 409 reaches the client.
const maxAllocAttempts = 3

type Handler struct {
	repo    Repository
	asm     *Assembler
	alloc   Allocator
	effects *Effects
}

func NewHandler(repo Repository, asm *Assembler, alloc Allocator, effects *Effects) *Handler {
	return &Handler{repo: repo, asm: asm, alloc: alloc, effects: effects}
}

func requesterFrom(c *gin.Context) *Requester {
	claims := httpx.RequesterFrom(c)
	if claims == nil {
		return nil
	}
	return &Requester{
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please login and try again"})
	case errors.Is(err, ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, ErrProductUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Could not allocate a unique order id"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
	default:
		log.Printf("[order] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// Create handles POST /orders: assemble, persist, fire post-commit effects.
func (h *Handler) Create(c *gin.Context) {
	requester := requesterFrom(c)
	if requester == nil {
		respondError(c, ErrNotAuthenticated)
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	o, err := h.asm.Assemble(ctx, req, requester)
	if err != nil {
		respondError(c, err)
		return
	}

	// The unique index is the uniqueness backstop; on a duplicate id the
	// snapshots and totals stay, only the identifier is re-derived.
	err = h.repo.Insert(ctx, o)
	for attempt := 1; errors.Is(err, ErrConflict) && attempt < maxAllocAttempts; attempt++ {
		log.Printf("[order] id conflict on %s, re-allocating (attempt %d)", o.OrderID, attempt)
		var id string
		if id, err = h.alloc.Next(ctx); err != nil {
			break
		}
		o.OrderID = id
		err = h.repo.Insert(ctx, o)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.effects.OrderPlaced(o)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully!", "order": o})
}

// List handles GET /orders, scoped once per request: admins see everything,
// customers only their own, newest first.
func (h *Handler) List(c *gin.Context) {
	requester := requesterFrom(c)
	if requester == nil {
		respondError(c, ErrNotAuthenticated)
		return
	}

	scope := ScopeOwnedBy(requester.Email)
	if requester.IsAdmin() {
		scope = ScopeAll()
	}
	orders, err := h.repo.List(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:orderId. Non-admins cannot tell a foreign order
// from a missing one.
func (h *Handler) Get(c *gin.Context) {
	requester := requesterFrom(c)
	if requester == nil {
		respondError(c, ErrNotAuthenticated)
		return
	}

	o, err := h.repo.GetByOrderID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !requester.IsAdmin() && o.Email != requester.Email {
		respondError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Update handles PUT /orders/:orderId (admin, route-gated).
func (h *Handler) Update(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status"})
		return
	}

	o, err := h.repo.Update(c.Request.Context(), c.Param("orderId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": o})
}

// Delete handles DELETE /orders/:orderId (admin, route-gated).
func (h *Handler) Delete(c *gin.Context) {
	o, err := h.repo.Delete(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully", "order": o})
}
