package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nfnt/resize"

	"github.com/GMBuzatto/CutOut/config"
)

// Remover is the remote classifier contract: it either returns a finished
// cutout or fails outright. Any failure sends the caller to the local
// cascade, so errors here are soft.
type Remover interface {
	Remove(ctx context.Context, img *RasterImage) (*RasterImage, error)
}

// RemoteClassifier posts the image to an external segmentation API. Large
// images are downscaled to the configured preview size before upload; the
// returned alpha is scaled back up and re-applied to the original pixels.
type RemoteClassifier struct {
	cfg    config.RemoteConfig
	codec  *Codec
	client *http.Client
}

func NewRemoteClassifier(cfg config.RemoteConfig, codec *Codec) *RemoteClassifier {
	return &RemoteClassifier{
		cfg:   cfg,
		codec: codec,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (rc *RemoteClassifier) Remove(ctx context.Context, img *RasterImage) (*RasterImage, error) {
	upload := img
	scaled := false
	if rc.cfg.PreviewSize > 0 && max(img.Width, img.Height) > rc.cfg.PreviewSize {
		src := rc.codec.ToImage(img)
		resized := resize.Resize(uint(rc.cfg.PreviewSize), 0, src, resize.Lanczos3)
		if img.Height > img.Width {
			resized = resize.Resize(0, uint(rc.cfg.PreviewSize), src, resize.Lanczos3)
		}
		upload = rc.codec.FromImage(resized)
		scaled = true
	}

	payload, err := rc.codec.EncodePNG(upload)
	if err != nil {
		return nil, fmt.Errorf("remote payload: %w", err)
	}

	cutout, err := rc.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	if !scaled {
		if cutout.Width != img.Width || cutout.Height != img.Height {
			return nil, fmt.Errorf("remote result %dx%d does not match input %dx%d",
				cutout.Width, cutout.Height, img.Width, img.Height)
		}
		return cutout, nil
	}

	if cutout.Width != upload.Width || cutout.Height != upload.Height {
		return nil, fmt.Errorf("remote result %dx%d does not match preview %dx%d",
			cutout.Width, cutout.Height, upload.Width, upload.Height)
	}

	// Re-apply the alpha to the full-resolution pixels.
	if cutout.Channels != 4 {
		return nil, fmt.Errorf("remote result has no alpha channel")
	}
	mask := &Mask{Width: cutout.Width, Height: cutout.Height, Data: make([]byte, cutout.Width*cutout.Height)}
	for i := range mask.Data {
		mask.Data[i] = cutout.Pix[i*4+3]
	}
	full := rc.codec.ResizeMask(mask, img.Width, img.Height)
	return NewCompositor().Compose(img, full)
}

func (rc *RemoteClassifier) post(ctx context.Context, payload []byte) (*RasterImage, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	_ = writer.WriteField("size", "auto")
	_ = writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.cfg.BaseURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if rc.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", rc.cfg.APIKey)
	}

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("remote classifier status %d: %s", resp.StatusCode, snippet)
	}

	cutout, err := rc.codec.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode remote result: %w", err)
	}
	return cutout, nil
}
