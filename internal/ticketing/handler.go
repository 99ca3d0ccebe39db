package ticketing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.ListConcerts)
	r.POST("/buy", h.Buy)
	r.POST("/concerts", h.CreateConcert)
}

type buyRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Email   string `json:"email"`
}

type createConcertRequest struct {
	Artist string `json:"artist" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

func (h *Handler) ListConcerts(c *gin.Context) {
	concerts, err := h.service.ListConcerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list concerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"concerts": concerts})
}

func (h *Handler) Buy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id is required"})
		return
	}
	if req.Email == "" {
		req.Email = "client@test.com"
	}

	result, err := h.service.Purchase(c.Request.Context(), req.EventID, req.Email)
	switch {
	case errors.Is(err, ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Sorry, this concert is sold out!"})
	case err != nil:
		// no dependency detail leaves the process
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed, please try again"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Purchase confirmed! Ticket reserved.",
			"order_id": result.OrderID,
		})
	}
}

func (h *Handler) CreateConcert(c *gin.Context) {
	var req createConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "artist and date are required"})
		return
	}

	concert, err := h.service.CreateConcert(c.Request.Context(), req.Artist, req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create concert"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"concert": concert})
}
