package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/config"
	"github.com/rosarios-tailoring/rosarios-tailoring-api/services"
)

// queueNow is the wall clock for today-queue reads, overridable in tests.
var queueNow = time.Now

// GetTodayQueue handles GET /api/v1/queue/today - the daily service queue
// with current/next customer pointers.
func GetTodayQueue(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	now := queueNow()
	if cfg := config.GetConfig(); cfg != nil {
		if loc, err := cfg.Location(); err == nil {
			now = now.In(loc)
		}
	}

	queueService := services.NewQueueService(config.GetDB())
	view, err := queueService.GetTodayQueue(now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to build today's queue",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// RecalculateQueue handles POST /api/v1/queue/recalculate (admins only) -
// forces a full queue renumbering.
func RecalculateQueue(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	queueService := services.NewQueueService(config.GetDB())
	if err := queueService.RecalculateQueueNumbers(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to recalculate queue numbers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Queue numbers recalculated",
	})
}
