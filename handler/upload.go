package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GMBuzatto/CutOut/config"
	"github.com/GMBuzatto/CutOut/model"
	"github.com/GMBuzatto/CutOut/service"
	"github.com/GMBuzatto/CutOut/utils"
)

type UploadHandler struct {
	cfg           *config.Config
	redisService  *service.RedisService
	cutoutService *service.CutoutService
}

func NewUploadHandler(cfg *config.Config, redis *service.RedisService, cutout *service.CutoutService) *UploadHandler {
	return &UploadHandler{
		cfg:           cfg,
		redisService:  redis,
		cutoutService: cutout,
	}
}

// Upload accepts a multipart image, removes its background and returns the
// result. Results are cached by content MD5 and requested method.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Error("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "please upload an image file",
			Error:   err.Error(),
		})
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("file exceeds the size limit (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "unsupported file type, only JPEG/PNG are accepted",
		})
		return
	}

	ext := filepath.Ext(file.Filename)
	filename := utils.GenerateID() + ext
	savePath := filepath.Join(h.cfg.Upload.UploadDir, filename)

	if err := c.SaveUploadedFile(file, savePath); err != nil {
		utils.Logger.Error("failed to save file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "failed to save file",
			Error:   err.Error(),
		})
		return
	}

	md5, err := utils.FileMD5(savePath)
	if err != nil {
		utils.Logger.Error("failed to calculate md5", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "failed to hash file",
			Error:   err.Error(),
		})
		return
	}

	if h.cfg.Removal.CleanupTempFiles {
		defer func() {
			if err := os.Remove(savePath); err != nil {
				utils.Logger.Warn("failed to delete temp file",
					zap.String("file", savePath),
					zap.Error(err))
			}
		}()
	}

	method := c.DefaultPostForm("method", service.MethodAuto)
	if method != service.MethodAuto && method != service.MethodCascade && method != service.MethodMultilayer {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "method must be auto, cascade or multilayer",
		})
		return
	}

	utils.Logger.Info("file uploaded",
		zap.String("filename", filename),
		zap.String("md5", md5),
		zap.Int64("size", file.Size),
		zap.String("method", method))

	ctx := context.Background()
	cacheKey := md5
	if method != service.MethodAuto {
		cacheKey = md5 + ":" + method
	}

	cachedResult, err := h.redisService.GetCutoutResult(ctx, cacheKey)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.Error(err))
	}

	if cachedResult != nil {
		utils.Logger.Info("cache hit", zap.String("cache_key", cacheKey))
		c.JSON(http.StatusOK, model.UploadResponse{
			Success: true,
			Message: "processed (cached)",
			Data:    cachedResult,
		})
		return
	}

	result, err := h.cutoutService.ProcessImage(savePath, md5, method)
	if err != nil {
		utils.Logger.Error("failed to process image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "image processing failed",
			Error:   err.Error(),
		})
		return
	}

	if err := h.redisService.SetCutoutResult(ctx, cacheKey, result); err != nil {
		utils.Logger.Warn("failed to set cache", zap.Error(err))
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		Success: true,
		Message: "processed",
		Data:    result,
	})
}

// GetByMD5 returns a cached result by content hash.
func (h *UploadHandler) GetByMD5(c *gin.Context) {
	md5 := c.Param("md5")
	if md5 == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "md5 parameter is missing",
		})
		return
	}

	ctx := context.Background()
	result, err := h.redisService.GetCutoutResult(ctx, md5)
	if err != nil {
		utils.Logger.Error("failed to get cutout result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "lookup failed",
			Error:   err.Error(),
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "no cutout found for this image",
		})
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		Success: true,
		Message: "found",
		Data:    result,
	})
}

func (h *UploadHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
