package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yusimeilanyy/intern-project/service"
)

// ReminderHandler triggers a dispatcher run outside the schedule.
type ReminderHandler struct {
	reminders *service.ReminderService
}

func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// Run executes one reminder pass immediately and returns its report.
func (h *ReminderHandler) Run(c *gin.Context) {
	report, err := h.reminders.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder run failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Reminder run completed",
		"report":  report,
	})
}
