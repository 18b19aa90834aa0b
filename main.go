package main

import (
	"time"

	"github.com/bobibcgroup/safespace/config"
	"github.com/bobibcgroup/safespace/handler"
	"github.com/bobibcgroup/safespace/router"
	"github.com/bobibcgroup/safespace/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment")
	}
	config.AppCfg.LoadConfig()
}

func main() {
	cfg := config.AppCfg
	db := config.ConnectDatabase(cfg)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	// Services
	ai := service.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	telegram := service.NewTelegramClient(cfg.TelegramBotToken)
	notifications := service.NewNotificationService(db, telegram, cfg.BaseURL)

	users := service.NewUserService(db)
	campaigns := service.NewCampaignService(db)
	responses := service.NewResponseService(db, ai, notifications)
	notes := service.NewNoteService(db)
	actionItems := service.NewActionItemService(db)
	reports := service.NewReportService(db, ai)
	exports := service.NewExportService(db)
	qr := service.NewQRService(cfg.BaseURL)
	schedule := service.NewScheduleService(db)

	// Bootstrap admin when the users table is empty
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.WithError(err).Error("failed to ensure admin user")
		}
	}

	// In-process schedule sweep, optional alongside the external cron endpoint
	if cfg.ScheduleCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.ScheduleCron, func() {
			result, err := schedule.Sweep(time.Now())
			if err != nil {
				log.WithError(err).Error("schedule sweep failed")
				return
			}
			log.WithFields(log.Fields{
				"activated":   result.Activated,
				"deactivated": result.Deactivated,
				"processed":   result.Processed,
			}).Info("schedule sweep completed")
		})
		if err != nil {
			log.WithError(err).Error("invalid SCHEDULE_CRON expression")
		} else {
			c.Start()
			defer c.Stop()
		}
	}

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(users),
		User:       handler.NewUserHandler(users),
		Campaign:   handler.NewCampaignHandler(campaigns, exports, qr),
		Response:   handler.NewResponseHandler(responses, campaigns),
		Note:       handler.NewNoteHandler(notes),
		ActionItem: handler.NewActionItemHandler(actionItems),
		Report:     handler.NewReportHandler(reports, campaigns),
		Schedule:   handler.NewScheduleHandler(schedule, notifications),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL, "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Report-Token"},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		MaxAge:           12 * time.Hour,
	}))
	router.SetupRoutes(r, handlers)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
