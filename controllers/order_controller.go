package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
)

// ListOrders handles GET /api/v1/orders - customers see their own orders,
// admins see everything (optionally filtered by status).
func ListOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Appointment").Preload("Appointment.User").Order("created_at DESC")
	if !user.IsAdmin() {
		query = query.
			Joins("JOIN appointments ON appointments.id = orders.appointment_id").
			Where("appointments.user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("orders.status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
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
	if err := db.Preload("Appointment").Preload("Appointment.User").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	// Customers can only view their own orders
	if !user.IsAdmin() && order.Appointment.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to view this order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status                string   `json:"status" binding:"required"`
	CheckAppointmentDate  string   `json:"check_appointment_date"`
	CheckAppointmentTime  string   `json:"check_appointment_time"`
	PickupAppointmentDate string   `json:"pickup_appointment_date"`
	PickupAppointmentTime string   `json:"pickup_appointment_time"`
	TotalAmount           *float64 `json:"total_amount"`
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status (admins only)
func UpdateOrderStatus(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.UpdateStatus(orderID, req.Status, services.UpdateOrderStatusInput{
		CheckAppointmentDate:  req.CheckAppointmentDate,
		CheckAppointmentTime:  req.CheckAppointmentTime,
		PickupAppointmentDate: req.PickupAppointmentDate,
		PickupAppointmentTime: req.PickupAppointmentTime,
		TotalAmount:           req.TotalAmount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// MarkOrderHandled handles POST /api/v1/orders/:id/handled (admins only)
func MarkOrderHandled(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	orderService := services.NewOrderService(config.GetDB())
	order, err := orderService.MarkHandled(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AttachOrderRefund handles POST /api/v1/orders/:id/refund - order-level
// entry to the refund workflow (admins only).
func AttachOrderRefund(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	refundKey := ""
	if fileHeader, err := c.FormFile("refund_image"); err == nil {
		key, uploadErr := uploadImage(fileHeader, services.ImageCategoryRefund)
		if uploadErr != nil {
			respondServiceError(c, uploadErr)
			return
		}
		refundKey = key
	}

	appointmentService := services.NewAppointmentService(config.GetDB())
	if err := appointmentService.AttachRefundByOrder(orderID, refundKey); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Refund image attached",
	})
}
