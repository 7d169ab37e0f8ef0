package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/middleware"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/utils"
)

// requireUser resolves the authenticated caller to a database user. On
// failure it writes the error response and returns ok=false.
func requireUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// requireAdmin resolves the caller and rejects non-admins.
func requireAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can access this resource",
			},
		})
		return nil, false
	}
	return user, true
}

// respondServiceError translates the service error taxonomy into HTTP
// responses: validation 400, slot conflict 409, authorization 403, not
// found 404, anything else 500.
func respondServiceError(c *gin.Context, err error) {
	var conflictErr *services.ConflictError
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var authzErr *services.AuthorizationError
	var uploadErr *utils.FileUploadError

	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLOT_TAKEN",
				"message": "The selected time slot is already booked. Please pick another slot.",
				"details": conflictErr.Error(),
			},
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
				"field":   validationErr.Field,
			},
		})
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": authzErr.Message,
			},
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFoundErr.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
	}
}
