package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GMBuzatto/CutOut/config"
	"github.com/GMBuzatto/CutOut/handler"
	"github.com/GMBuzatto/CutOut/middleware"
	"github.com/GMBuzatto/CutOut/service"
	"github.com/GMBuzatto/CutOut/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	cfg := config.New()

	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting CutOut server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch),
		zap.Bool("remote_enabled", cfg.Remote.Enabled))

	if err := os.MkdirAll(cfg.Upload.UploadDir, 0755); err != nil {
		utils.Logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	redisService := service.NewRedisService(&cfg.Redis)
	ctx := context.Background()
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer redisService.Close()

	cutoutService := service.NewCutoutService(cfg)

	uploadHandler := handler.NewUploadHandler(cfg, redisService, cutoutService)

	// Periodic sweep for upload leftovers that escaped per-request cleanup.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Upload.CleanupSchedule, func() {
		cleanupUploads(cfg.Upload.UploadDir, cfg.Upload.MaxAge)
	}); err != nil {
		utils.Logger.Warn("invalid cleanup schedule, sweep disabled",
			zap.String("schedule", cfg.Upload.CleanupSchedule), zap.Error(err))
	} else {
		sweeper.Start()
		defer sweeper.Stop()
	}

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.Static("/static", "./static")
	r.StaticFile("/", "./static/index.html")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/upload", uploadHandler.Upload)
		api.GET("/cutout/:md5", uploadHandler.GetByMD5)
	}

	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}

// cleanupUploads deletes upload files older than maxAge.
func cleanupUploads(dir string, maxAge time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		utils.Logger.Warn("cleanup: failed to read upload dir", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		utils.Logger.Info("cleanup: removed stale uploads", zap.Int("count", removed))
	}
}
