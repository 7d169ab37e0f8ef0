package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
)

// ListServiceTypes handles GET /api/v1/service-types - reference data for
// the booking form.
func ListServiceTypes(c *gin.Context) {
	db := config.GetDB()
	var serviceTypes []models.ServiceType
	if err := db.Order("name ASC").Find(&serviceTypes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch service types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceTypes,
	})
}

// ServiceTypeRequest represents the request body for creating or updating
// a service type
type ServiceTypeRequest struct {
	Name              string  `json:"name" binding:"required"`
	DownpaymentAmount float64 `json:"downpayment_amount" binding:"required,gte=0"`
}

// CreateServiceType handles POST /api/v1/service-types (admins only)
func CreateServiceType(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var req ServiceTypeRequest
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

	serviceType := models.ServiceType{
		Name:              req.Name,
		DownpaymentAmount: req.DownpaymentAmount,
	}

	db := config.GetDB()
	if err := db.Create(&serviceType).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVICE_TYPE_EXISTS",
					"message": "A service type with this name already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service type",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    serviceType,
	})
}

// UpdateServiceType handles PUT /api/v1/service-types/:id (admins only)
func UpdateServiceType(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	serviceTypeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ServiceTypeRequest
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

	db := config.GetDB()
	var serviceType models.ServiceType
	if err := db.First(&serviceType, serviceTypeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service type not found",
			},
		})
		return
	}

	updates := map[string]interface{}{
		"name":               req.Name,
		"downpayment_amount": req.DownpaymentAmount,
	}
	if err := db.Model(&serviceType).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service type",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceType,
	})
}

// DeleteServiceType handles DELETE /api/v1/service-types/:id (admins only)
func DeleteServiceType(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	serviceTypeID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	result := db.Delete(&models.ServiceType{}, serviceTypeID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service type",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service type not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service type deleted",
	})
}
