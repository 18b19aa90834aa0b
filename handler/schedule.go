package handler

import (
	"net/http"
	"time"

	"github.com/bobibcgroup/safespace/middleware"
	"github.com/bobibcgroup/safespace/service"
	"github.com/bobibcgroup/safespace/util"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	schedule      *service.ScheduleService
	notifications *service.NotificationService
}

func NewScheduleHandler(schedule *service.ScheduleService, notifications *service.NotificationService) *ScheduleHandler {
	return &ScheduleHandler{
		schedule:      schedule,
		notifications: notifications,
	}
}

// RunSweep processes campaign scheduling: activations, closures and recurring
// rollovers. Invoked by the external cron behind the cron auth middleware and
// by the in-process scheduler.
func (h *ScheduleHandler) RunSweep(c *gin.Context) {
	result, err := h.schedule.Sweep(time.Now())
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activated":   result.Activated,
		"deactivated": result.Deactivated,
		"processed":   result.Processed,
	})
}

// SendDigest builds the last-24h summary for the caller's campaigns and
// delivers it over Telegram when their preferences allow.
func (h *ScheduleHandler) SendDigest(c *gin.Context) {
	userID, _, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	summary, err := h.notifications.SendDigest(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
