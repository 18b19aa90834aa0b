package router

import (
	"github.com/bobibcgroup/safespace/handler"
	"github.com/bobibcgroup/safespace/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the wired handler set for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Campaign   *handler.CampaignHandler
	Response   *handler.ResponseHandler
	Note       *handler.NoteHandler
	ActionItem *handler.ActionItemHandler
	Report     *handler.ReportHandler
	Schedule   *handler.ScheduleHandler
}

func SetupRoutes(r *gin.Engine, h *Handlers) {
	// Public routes
	r.POST("/login", h.Auth.Login)
	r.GET("/ping", handler.PingHandler)
	r.GET("/health", handler.HealthCheckHandler)

	// Anonymous submission. No auth on purpose.
	r.POST("/responses", h.Response.SubmitResponse)

	// Shared by the public submission/report pages and the CRM: an optional
	// session decides between the public projection and the full record.
	r.GET("/campaigns/:id", middleware.OptionalAuthMiddleware(), h.Campaign.GetCampaign)
	r.GET("/reports/:id", middleware.OptionalAuthMiddleware(), h.Report.GetReport)
	r.POST("/reports/verify-password/:id", h.Report.VerifyReportPassword)

	// External cron endpoint authenticated by the shared secret.
	r.POST("/schedule", middleware.CronAuthMiddleware(), h.Schedule.RunSweep)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/campaigns", h.Campaign.ListCampaigns)
		protected.POST("/campaigns", h.Campaign.CreateCampaign)
		protected.PATCH("/campaigns/:id", h.Campaign.UpdateCampaign)
		protected.DELETE("/campaigns/:id", middleware.AdminMiddleware(), h.Campaign.DeleteCampaign)
		protected.POST("/campaigns/:id/clone", h.Campaign.CloneCampaign)
		protected.GET("/campaigns/:id/export", h.Campaign.ExportResponses)
		protected.GET("/campaigns/:id/qr", h.Campaign.GetQRCode)

		protected.GET("/responses", h.Response.ListResponses)
		protected.GET("/responses/:id", h.Response.GetResponse)
		protected.PATCH("/responses/:id", h.Response.UpdateResponse)
		protected.POST("/responses/bulk-update", h.Response.BulkUpdateResponses)

		protected.POST("/notes", h.Note.CreateNote)
		protected.GET("/notes", h.Note.ListNotes)
		protected.PATCH("/notes/:id", h.Note.UpdateNote)
		protected.DELETE("/notes/:id", h.Note.DeleteNote)

		protected.POST("/action-items", h.ActionItem.CreateActionItem)
		protected.GET("/action-items", h.ActionItem.ListActionItems)
		protected.PATCH("/action-items/:id", h.ActionItem.UpdateActionItem)
		protected.DELETE("/action-items/:id", h.ActionItem.DeleteActionItem)

		protected.POST("/reports/generate", h.Report.GenerateReport)
		protected.POST("/reports/suggest-actions", h.Report.SuggestActions)

		protected.POST("/notifications/digest", h.Schedule.SendDigest)

		protected.GET("/user/profile", h.User.GetProfile)
		protected.PUT("/user/notifications", h.User.UpdateNotificationPreferences)
		protected.PATCH("/users/:id", h.User.UpdateUser)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/users", h.User.ListUsers)
		admin.POST("/users", h.User.CreateUser)
		admin.DELETE("/users/:id", h.User.DeleteUser)
	}
}
