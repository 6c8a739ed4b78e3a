package slider

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cbcshop/backend/internal/httpx"
)

type Handler struct{ repo Repository }

func NewHandler(repo Repository) *Handler { return &Handler{repo: repo} }

func isAdmin(c *gin.Context) bool {
	claims := httpx.RequesterFrom(c)
	return claims != nil && claims.Role == "admin"
}

// List returns sliders in storefront order; only admins see inactive ones.
func (h *Handler) List(c *gin.Context) {
	sliders, err := h.repo.List(c.Request.Context(), isAdmin(c))
	if err != nil {
		log.Printf("[slider] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving sliders"})
		return
	}
	c.JSON(http.StatusOK, sliders)
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.repo.FindBySliderID(c.Request.Context(), c.Param("sliderId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Slider not found"})
			return
		}
		log.Printf("[slider] get failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if !s.IsActive && !isAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Slider not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSliderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Title == "" || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and imageUrl are required"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	sliderID := req.SliderID
	if sliderID == "" {
		sliderID = uuid.NewString()
	}
	s := &Slider{
		SliderID: sliderID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		ImageURL: req.ImageURL,
		Link:     req.Link,
		IsActive: active,
		Order:    req.Order,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			c.JSON(http.StatusConflict, gin.H{"message": "Slider ID already exists"})
			return
		}
		log.Printf("[slider] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add slider"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Slider added successfully", "slider": s})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateSliderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := h.repo.Update(c.Request.Context(), c.Param("sliderId"), req); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Slider not found"})
			return
		}
		log.Printf("[slider] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slider updated successfully"})
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.repo.Delete(c.Request.Context(), c.Param("sliderId"))
	if err != nil {
		log.Printf("[slider] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete slider"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Slider not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slider deleted successfully"})
}
