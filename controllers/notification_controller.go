package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
)

// ListNotifications handles GET /api/v1/notifications - the polling feed.
// Customers get their own notifications, admins get the broadcast feed.
func ListNotifications(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	notificationService := services.NewNotificationService(config.GetDB())

	var err error
	var notifications interface{}
	if user.IsAdmin() {
		notifications, err = notificationService.ListForAdmins()
	} else {
		notifications, err = notificationService.ListForCustomer(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	notificationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	notificationService := services.NewNotificationService(config.GetDB())
	if err := notificationService.MarkRead(notificationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to mark notification read",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked read",
	})
}
