package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/mention-comb/app/config"
	"github.com/lysyi3m/mention-comb/app/state"
	"github.com/lysyi3m/mention-comb/app/tasks"
)

func NewHandler(store *state.Store, keywords *config.Keywords,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		store:     store,
		keywords:  keywords,
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":     time.Now().Format(time.RFC3339),
		"keywords":      len(h.keywords.Terms),
		"processed_ids": h.store.ProcessedCount(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"cursor":        h.store.Cursor(),
		"processed_ids": h.store.ProcessedCount(),
		"keywords":      h.keywords.Terms,
		"threshold":     h.keywords.Threshold,
	}

	if outcome, ok := h.scheduler.LastOutcome(); ok {
		stats["last_pass"] = outcome
	}

	c.JSON(http.StatusOK, stats)
}

// APITriggerPoll enqueues an immediate pass. The pass runs on the scheduler
// worker; this handler only confirms it was queued.
func (h *Handler) APITriggerPoll(c *gin.Context) {
	if err := h.scheduler.TriggerPoll(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Failed to enqueue poll",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
