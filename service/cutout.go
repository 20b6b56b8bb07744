package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GMBuzatto/CutOut/config"
	"github.com/GMBuzatto/CutOut/model"
	"github.com/GMBuzatto/CutOut/utils"
)

// Method selection for one request.
const (
	MethodAuto       = "auto"
	MethodCascade    = "cascade"
	MethodMultilayer = "multilayer"
)

// CutoutService runs the whole removal flow for one uploaded image: decode,
// optional remote classifier, heuristic cascade or multi-layer synthesis,
// composition and PNG encoding. One logical flow per image; a semaphore
// bounds how many images run at once.
type CutoutService struct {
	removal      config.RemovalConfig
	semaphore    chan struct{}
	queueTimeout time.Duration

	codec      *Codec
	cascade    *CascadeOrchestrator
	multilayer *MultiLayerMaskSynthesizer
	morphology *MorphologyEngine
	compositor *Compositor
	complexity *ComplexityAnalyzer
	palette    *PaletteExtractor
	remote     Remover // nil when the remote classifier is disabled
}

func NewCutoutService(cfg *config.Config) *CutoutService {
	codec := NewCodec()

	s := &CutoutService{
		removal:      cfg.Removal,
		semaphore:    make(chan struct{}, max(1, cfg.Removal.MaxConcurrent)),
		queueTimeout: time.Duration(cfg.Removal.QueueTimeout) * time.Second,
		codec:        codec,
		cascade:      NewCascadeOrchestrator(codec),
		multilayer:   NewMultiLayerMaskSynthesizer(codec, cfg.Removal.InvertDistancePolarity),
		morphology:   NewMorphologyEngine(),
		compositor:   NewCompositor(),
		complexity:   NewComplexityAnalyzer(codec),
		palette:      NewPaletteExtractor(cfg.Removal.PaletteMethod, cfg.Removal.PaletteSize),
	}
	if cfg.Remote.Enabled {
		s.remote = NewRemoteClassifier(cfg.Remote, codec)
	}
	return s
}

// ProcessImage removes the background from the image at imagePath and
// returns the finished result. method is auto, cascade or multilayer.
func (s *CutoutService) ProcessImage(imagePath, md5, method string) (*model.CutoutResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-ctx.Done():
		return nil, fmt.Errorf("processing queue is full, try again later")
	}

	startTime := time.Now()

	img, err := s.codec.DecodeFile(imagePath)
	if err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("decoded raster invalid: %w", err)
	}

	utils.Logger.Info("processing image",
		zap.String("md5", md5),
		zap.String("method", method),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))

	// The remote classifier fully bypasses the local pipeline on success.
	if s.remote != nil && method == MethodAuto {
		if rgba, err := s.remote.Remove(ctx, img); err == nil {
			return s.finish(img, rgba, md5, "remote", "", startTime)
		} else {
			utils.Logger.Warn("remote classifier failed, falling back to cascade",
				zap.String("md5", md5), zap.Error(err))
		}
	}

	scaled, scale := s.codec.SmartResize(img, s.removal.MaxDimension)

	complexity := s.complexity.Analyze(scaled)
	utils.Logger.Info("scene analyzed",
		zap.String("level", complexity.Level),
		zap.Float64("edge_density", complexity.EdgeDensity),
		zap.Float64("color_variance", complexity.ColorVariance))

	var res MethodResult
	if method == MethodMultilayer {
		res = s.runMultilayer(scaled, complexity)
	} else {
		res = s.cascade.Run(scaled)
	}

	mask := res.Mask
	if scale != 1.0 {
		mask = s.codec.ResizeMask(mask, img.Width, img.Height)
	}

	rgba, err := s.compositor.Compose(img, mask)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	result, err := s.finish(img, rgba, md5, res.Method, res.Detail, startTime)
	if err != nil {
		return nil, err
	}
	result.Removed = res.Stats.RemovedPercentage
	result.Complexity = complexity.Level
	return result, nil
}

// runMultilayer synthesizes the probability mask and cleans it up; busier
// scenes get a second morphology pass.
func (s *CutoutService) runMultilayer(img *RasterImage, complexity ComplexityInfo) MethodResult {
	mask := s.multilayer.Synthesize(img, s.removal.MultilayerSeed)

	passes := 1
	if complexity.Level == "complex" || complexity.Level == "portrait" {
		passes = 2
	}
	for i := 0; i < passes; i++ {
		mask = s.morphology.Close(s.morphology.Open(mask))
	}

	stats := NewMaskValidator().AnalyzeMaskStatistics(mask)
	return MethodResult{
		Accepted: true,
		Method:   MethodMultilayer,
		Detail:   fmt.Sprintf("passes=%d", passes),
		Mask:     mask,
		Stats:    stats,
	}
}

// finish encodes the RGBA output and assembles the API result.
func (s *CutoutService) finish(src, rgba *RasterImage, md5, method, detail string, startTime time.Time) (*model.CutoutResult, error) {
	data, err := s.codec.EncodePNG(rgba)
	if err != nil {
		return nil, err
	}

	foreground := 0
	if rgba.Channels == 4 {
		for i := 3; i < len(rgba.Pix); i += 4 {
			if rgba.Pix[i] > 0 {
				foreground++
			}
		}
	}
	confidence := float64(foreground) / float64(max(1, rgba.Width*rgba.Height))
	if confidence < 0.05 {
		confidence = 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	result := &model.CutoutResult{
		MD5:        md5,
		Width:      src.Width,
		Height:     src.Height,
		Method:     method,
		Detail:     detail,
		Confidence: confidence,
		Palette:    s.palette.Extract(s.codec.ToImage(src)),
		Image:      base64.StdEncoding.EncodeToString(data),
		Timestamp:  time.Now().Unix(),
	}

	utils.Logger.Info("image processed successfully",
		zap.String("md5", md5),
		zap.String("method", method),
		zap.String("detail", detail),
		zap.Duration("duration", time.Since(startTime)),
		zap.Float64("confidence", confidence))

	return result, nil
}
