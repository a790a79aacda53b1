package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func (s *Server) placeOrder(c *gin.Context) {
	var input orderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := s.intake.PlaceOrder(input.toDomain())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully!",
		"orderId": orderID,
	})
}

// listOrders возвращает ожидающие заказы, от новых к старым.
func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.engine.ListPending()
	if err != nil {
		s.logger.WithError(err).Error("failed to list pending orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, toOrderListJSON(orders))
}

// resolveOrder применяет решение оператора: accept или decline.
// Заказ исчезает из ожидающих в обоих случаях; отличается только судьба
// остатков и статус архивной записи.
func (s *Server) resolveOrder(c *gin.Context) {
	var input struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := domain.ResolutionDecision(input.Action)
	if !decision.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be accept or decline"})
		return
	}

	_, err := s.engine.Resolve(c.Param("id"), decision)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Moved to history."})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case domain.IsOutOfStock(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot accept — one or more items are out of stock."})
	default:
		s.logger.WithError(err).Error("order resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func (s *Server) listHistory(c *gin.Context) {
	records, err := s.engine.History()
	if err != nil {
		s.logger.WithError(err).Error("failed to list order history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, toHistoryListJSON(records))
}
