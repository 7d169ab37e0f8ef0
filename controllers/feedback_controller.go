package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
)

// SendFeedbackRequest represents the request body for sending feedback
type SendFeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendFeedback handles POST /api/v1/orders/:id/feedback - adds a feedback
// message to an order's conversation. Customers can only write on their own
// orders; admins can write on any.
func SendFeedback(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Appointment").First(&order, orderID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if !user.IsAdmin() && order.Appointment.UserID != user.ID {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to send feedback on this order",
			},
		})
		return
	}

	var req SendFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	feedback := models.Feedback{
		OrderID:  order.ID,
		SenderID: user.ID,
		Text:     req.Text,
	}

	if err := db.Create(&feedback).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create feedback",
			},
		})
		return
	}

	if err := db.Preload("Sender").First(&feedback, feedback.ID).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load feedback details",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    feedback,
	})
}

// ListFeedback handles GET /api/v1/orders/:id/feedback - lists an order's
// feedback conversation, oldest first.
func ListFeedback(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Appointment").First(&order, orderID).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if !user.IsAdmin() && order.Appointment.UserID != user.ID {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view feedback on this order",
			},
		})
		return
	}

	var feedbacks []models.Feedback
	if err := db.Where("order_id = ?", order.ID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&feedbacks).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch feedback",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    feedbacks,
	})
}
