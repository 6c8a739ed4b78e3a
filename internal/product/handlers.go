package product

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cbcshop/backend/internal/cache"
	"github.com/cbcshop/backend/internal/httpx"
)

const (
	bestSellersLimit    = 12
	bestSellersCacheTTL = 60 * time.Second
)

type Handler struct {
	repo  Repository
	cache cache.Cache // nil disables caching
}

func NewHandler(repo Repository, c cache.Cache) *Handler {
	return &Handler{repo: repo, cache: c}
}

func isAdmin(c *gin.Context) bool {
	claims := httpx.RequesterFrom(c)
	return claims != nil && claims.Role == "admin"
}

// List returns the catalog. Non-admin callers only see available products.
// Supports ?sort=-price,name and ?limit=N.
func (h *Handler) List(c *gin.Context) {
	q := Query{Sort: c.Query("sort")}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	products, err := h.repo.List(c.Request.Context(), q, isAdmin(c))
	if err != nil {
		log.Printf("[product] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.repo.FindByProductID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("[product] get failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if !p.IsAvailable && !isAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Search(c *gin.Context) {
	query := c.Param("query")
	products, err := h.repo.Search(c.Request.Context(), query)
	if err != nil {
		log.Printf("[product] search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message":     "No products found matching your search",
			"searchQuery": query,
		})
		return
	}
	c.JSON(http.StatusOK, products)
}

// BestSellers serves the salesCount leaderboard, cached for a minute when a
// cache is configured.
func (h *Handler) BestSellers(c *gin.Context) {
	ctx := c.Request.Context()
	var key string
	if h.cache != nil {
		key = h.cache.GenerateKey("products", "best-sellers")
		if cached, err := h.cache.Get(ctx, key); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	products, err := h.repo.BestSellers(ctx, bestSellersLimit)
	if err != nil {
		log.Printf("[product] best sellers failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if h.cache != nil {
		if body, err := json.Marshal(products); err == nil {
			if err := h.cache.Set(ctx, key, body, bestSellersCacheTTL); err != nil {
				log.Printf("[product] cache set failed: %v", err)
			}
		}
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) invalidateBestSellers(c *gin.Context) {
	if h.cache == nil {
		return
	}
	key := h.cache.GenerateKey("products", "best-sellers")
	if err := h.cache.Del(c.Request.Context(), key); err != nil {
		log.Printf("[product] cache invalidate failed: %v", err)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.ProductID == "" || req.Name == "" || req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId, name and a positive price are required"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := &Product{
		ProductID:     req.ProductID,
		Name:          req.Name,
		AltNames:      req.AltNames,
		Description:   req.Description,
		Images:        req.Images,
		LabelledPrice: req.LabelledPrice,
		Price:         req.Price,
		Stock:         req.Stock,
		IsAvailable:   available,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			c.JSON(http.StatusConflict, gin.H{"message": "Product ID already exists"})
			return
		}
		log.Printf("[product] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product"})
		return
	}
	h.invalidateBestSellers(c)
	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully"})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := h.repo.Update(c.Request.Context(), c.Param("productId"), req); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("[product] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	h.invalidateBestSellers(c)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.repo.Delete(c.Request.Context(), c.Param("productId"))
	if err != nil {
		log.Printf("[product] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	h.invalidateBestSellers(c)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
