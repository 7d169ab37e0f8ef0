package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/models"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/utils"
)

// BookAppointment handles POST /api/v1/appointments - creates a booking
// request (customers only). Accepts multipart form data so the design image
// and GCash proof can ride along with the booking fields.
func BookAppointment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if user.Role != "customer" {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can book appointments",
			},
		})
		return
	}

	input := services.BookAppointmentInput{
		ServiceType:      c.PostForm("service_type"),
		Notes:            c.PostForm("notes"),
		PreferredDueDate: c.PostForm("preferred_due_date"),
		AppointmentDate:  c.PostForm("appointment_date"),
		AppointmentTime:  c.PostForm("appointment_time"),
	}
	if qty := c.PostForm("total_quantity"); qty != "" {
		parsed, err := strconv.Atoi(qty)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "total_quantity must be a number",
				},
			})
			return
		}
		input.TotalQuantity = parsed
	}
	if sizes := c.PostForm("sizes"); sizes != "" {
		if err := json.Unmarshal([]byte(sizes), &input.Sizes); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "sizes must be a JSON object of size label to quantity",
				},
			})
			return
		}
	}

	// Image storage failures are not essential to the booking itself:
	// format/size problems reject the request, infrastructure failures are
	// logged and the booking proceeds without the image.
	designKey, err := uploadFormImage(c, "design_image", services.ImageCategoryDesign)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	input.DesignImage = designKey
	gcashKey, err := uploadFormImage(c, "gcash_proof", services.ImageCategoryGcash)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	input.GcashProof = gcashKey

	appointmentService := services.NewAppointmentService(config.GetDB())
	appointment, err := appointmentService.Book(user.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    appointment,
	})
}

// ListAppointments handles GET /api/v1/appointments - customers see their
// own bookings, admins see everything (optionally filtered by status).
func ListAppointments(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("User").Preload("Order").Order("appointment_date ASC, appointment_time ASC")
	if !user.IsAdmin() {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch appointments",
			},
		})
		return
	}

	decorateDesignImageURLs(appointments)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
	})
}

// GetAvailableSlots handles GET /api/v1/appointments/available-slots
func GetAvailableSlots(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	excludeOrderID := uintQuery(c, "exclude_order_id")
	excludeAppointmentID := uintQuery(c, "exclude_appointment_id")

	availability := services.NewAvailabilityService(config.GetDB())
	slots, err := availability.GetAvailableSlots(c.Query("date"), excludeOrderID, excludeAppointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    slots,
	})
}

// AcceptAppointment handles POST /api/v1/appointments/:id/accept - an admin
// accepts a pending booking, creating its order.
func AcceptAppointment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	appointmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	appointmentService := services.NewAppointmentService(config.GetDB())
	order, err := appointmentService.Accept(appointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// RejectAppointment handles POST /api/v1/appointments/:id/reject - an admin
// rejects a booking. The refund proof image is mandatory.
func RejectAppointment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	appointmentID, ok := uintParam(c, "id")
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
	if err := appointmentService.Reject(appointmentID, refundKey); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment rejected",
	})
}

// CancelAppointment handles POST /api/v1/appointments/:id/cancel - the
// owning customer cancels their own booking.
func CancelAppointment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	appointmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	appointmentService := services.NewAppointmentService(config.GetDB())
	if err := appointmentService.Cancel(appointmentID, user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment cancelled",
	})
}

// AttachAppointmentRefund handles POST /api/v1/appointments/:id/refund -
// an admin uploads the refund proof for a cancelled booking.
func AttachAppointmentRefund(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	appointmentID, ok := uintParam(c, "id")
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
	if err := appointmentService.AttachRefund(appointmentID, refundKey); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Refund image attached",
	})
}

// ListPendingRefunds handles GET /api/v1/appointments/refunds/pending -
// cancelled bookings still waiting for their refund proof.
func ListPendingRefunds(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	appointmentService := services.NewAppointmentService(config.GetDB())
	appointments, err := appointmentService.PendingRefunds()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
	})
}

// DestroyAppointment handles DELETE /api/v1/appointments/:id - admin hard
// delete of an appointment and its order.
func DestroyAppointment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	appointmentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	appointmentService := services.NewAppointmentService(config.GetDB())
	if err := appointmentService.Destroy(appointmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Appointment deleted",
	})
}

// uploadFormImage uploads an optional multipart image field. Validation
// problems surface to the caller; storage failures are logged and the
// request continues without the image.
func uploadFormImage(c *gin.Context, field, category string) (*string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil // field not supplied
	}

	key, err := uploadImage(fileHeader, category)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			return nil, err
		}
		log.Printf("image upload for %s failed, continuing without it: %v", field, err)
		return nil, nil
	}
	return &key, nil
}

func uploadImage(fileHeader *multipart.FileHeader, category string) (string, error) {
	imageService := services.GetImageService()
	if imageService == nil {
		return "", errors.New("image service not initialized")
	}
	return imageService.UploadImage(fileHeader, category)
}

// decorateDesignImageURLs fills the computed presigned-URL field on reads.
func decorateDesignImageURLs(appointments []models.Appointment) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range appointments {
		if appointments[i].DesignImage == nil {
			continue
		}
		url, err := imageService.GetImageURL(*appointments[i].DesignImage)
		if err != nil {
			log.Printf("failed to presign design image for appointment %d: %v", appointments[i].ID, err)
			continue
		}
		if url != "" {
			appointments[i].DesignImageURL = &url
		}
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(value), true
}

func uintQuery(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}
