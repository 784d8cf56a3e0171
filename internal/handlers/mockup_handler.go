package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/background"
	"github.com/frameshot/mockup-renderer/internal/device"
	"github.com/frameshot/mockup-renderer/internal/mockup"
	"github.com/frameshot/mockup-renderer/internal/palette"
	"github.com/frameshot/mockup-renderer/internal/video"
	"github.com/frameshot/mockup-renderer/pkg/models"
)

// maxUploadBytes bounds multipart screenshot uploads.
const maxUploadBytes = 32 << 20

// maxVideoUploadBytes bounds screen recording uploads.
const maxVideoUploadBytes = 512 << 20

// MockupHandler handles HTTP requests for mockup composition
type MockupHandler struct {
	composer *mockup.Composer
	pool     *mockup.WorkerPool
	cache    *mockup.RenderCache // nil disables caching
	video    *video.Compositor   // nil disables video rendering
	catalog  *device.Catalog
	logger   *zap.Logger
}

// NewMockupHandler creates a new mockup handler
func NewMockupHandler(composer *mockup.Composer, pool *mockup.WorkerPool, cache *mockup.RenderCache, compositor *video.Compositor, catalog *device.Catalog, logger *zap.Logger) *MockupHandler {
	return &MockupHandler{
		composer: composer,
		pool:     pool,
		cache:    cache,
		video:    compositor,
		catalog:  catalog,
		logger:   logger,
	}
}

// RegisterRoutes registers the mockup routes
func (h *MockupHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/styles", h.handleStyles)
	mux.HandleFunc("/palettes", h.handlePalettes)
	mux.HandleFunc("/platforms", h.handlePlatforms)
	mux.HandleFunc("/devices", h.handleDevices)
	mux.HandleFunc("/mockups", h.handleMockup)
	mux.HandleFunc("/mockups/multi", h.handleMultiMockup)
	mux.HandleFunc("/mockups/batch", h.handleBatchMockup)
	mux.HandleFunc("/mockups/video", h.handleVideoMockup)
}

// handleHealth handles GET /health - returns service health status
func (h *MockupHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "mockup-renderer",
		"version": "1.0.0",
	})
}

// handleStyles handles GET /styles - lists background style names
func (h *MockupHandler) handleStyles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, background.Styles())
}

// handlePalettes handles GET /palettes - lists preset palette names
func (h *MockupHandler) handlePalettes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, palette.AvailablePresets())
}

// handlePlatforms handles GET /platforms - lists platform presets
func (h *MockupHandler) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, mockup.Platforms())
}

// handleDevices handles GET /devices - lists the device catalog
func (h *MockupHandler) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.logger, h.catalog.List())
}

// handleMockup handles POST /mockups - renders a single mockup from a
// multipart upload or a JSON body with a base64 screenshot. Responds with
// the encoded image.
func (h *MockupHandler) handleMockup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shotBytes, opts, format, quality, err := h.parseMockupRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if errs := ValidateOptions(opts); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}
	if err := ValidateFormat(format); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var cacheKey string
	if h.cache != nil {
		cacheKey = h.cache.Key(shotBytes, opts, format, quality)
		if data, ok, err := h.cache.Get(r.Context(), cacheKey); err != nil {
			h.logger.Warn("Render cache lookup failed", zap.Error(err))
		} else if ok {
			h.logger.Debug("Render cache hit", zap.String("key", cacheKey))
			writeImage(w, format, data)
			return
		}
	}

	screenshot, err := imaging.Decode(bytes.NewReader(shotBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode screenshot: %v", err), http.StatusBadRequest)
		return
	}

	m, err := h.composer.CreateMockup(screenshot, opts)
	if err != nil {
		h.logger.Error("Mockup composition failed", zap.Error(err))
		http.Error(w, "Failed to compose mockup", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf, format, quality); err != nil {
		h.logger.Error("Failed to encode mockup", zap.Error(err))
		http.Error(w, "Failed to encode mockup", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, buf.Bytes()); err != nil {
			h.logger.Warn("Render cache store failed", zap.Error(err))
		}
	}

	writeImage(w, format, buf.Bytes())
}

// handleMultiMockup handles POST /mockups/multi - renders several
// screenshots into one composition using a named layout.
func (h *MockupHandler) handleMultiMockup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	layout := mockup.Layout(formValue(r, "layout", string(mockup.LayoutStacked)))
	if err := ValidateLayout(layout); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	style := background.Style(formValue(r, "style", string(background.StyleFlowing)))
	deviceID := r.FormValue("device")

	files := r.MultipartForm.File["screenshots"]
	if len(files) == 0 {
		http.Error(w, "at least one screenshot is required", http.StatusBadRequest)
		return
	}

	screenshots := make([]image.Image, 0, len(files))
	for _, fh := range files {
		img, err := decodeUpload(fh)
		if err != nil {
			http.Error(w, fmt.Sprintf("screenshot %s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}
		screenshots = append(screenshots, img)
	}

	m, err := h.composer.CreateMultiDeviceMockup(screenshots, style, layout, deviceID)
	if err != nil {
		h.logger.Error("Multi-device composition failed", zap.Error(err))
		http.Error(w, "Failed to compose mockup", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf, "png", 0); err != nil {
		h.logger.Error("Failed to encode mockup", zap.Error(err))
		http.Error(w, "Failed to encode mockup", http.StatusInternalServerError)
		return
	}
	writeImage(w, "png", buf.Bytes())
}

// handleBatchMockup handles POST /mockups/batch - renders every uploaded
// screenshot through the worker pool with shared options, returning a JSON
// array of base64 results. A failed item does not abort the batch.
func (h *MockupHandler) handleBatchMockup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	opts, format, quality, err := optionsFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errs := ValidateOptions(opts); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	files := r.MultipartForm.File["screenshots"]
	if len(files) == 0 {
		http.Error(w, "at least one screenshot is required", http.StatusBadRequest)
		return
	}

	results := make([]models.MockupResult, len(files))
	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			results[i] = h.renderBatchItem(r.Context(), fh, opts, format, quality)
		}(i, fh)
	}
	wg.Wait()

	writeJSON(w, h.logger, results)
}

func (h *MockupHandler) renderBatchItem(ctx context.Context, fh *multipart.FileHeader, opts mockup.Options, format string, quality int) models.MockupResult {
	result := models.MockupResult{Type: "mockup_result"}

	img, err := decodeUpload(fh)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	m, err := h.pool.Submit(ctx, img, opts)
	if err != nil {
		h.logger.Warn("Batch item failed",
			zap.String("file", fh.Filename),
			zap.Error(err))
		result.Error = err.Error()
		return result
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf, format, quality); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Style = string(m.Style)
	result.Device = m.Device
	result.Width = m.Width
	result.Height = m.Height
	for _, c := range m.Palette {
		result.Palette = append(result.Palette, c.Hex())
	}
	result.Output = base64.StdEncoding.EncodeToString(buf.Bytes())
	return result
}

// handleVideoMockup handles POST /mockups/video - wraps an uploaded screen
// recording in a framed device over a styled background, responding with
// the rendered MP4.
func (h *MockupHandler) handleVideoMockup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.video == nil {
		http.Error(w, "video rendering is not available", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxVideoUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	opts, _, _, err := optionsFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errs := ValidateOptions(opts); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	file, fh, err := r.FormFile("video")
	if err != nil {
		http.Error(w, "video file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmpDir, err := os.MkdirTemp("", "video-mockup-*")
	if err != nil {
		h.logger.Error("Failed to create temp dir", zap.Error(err))
		http.Error(w, "Failed to compose video", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	inPath := filepath.Join(tmpDir, "input"+ext)
	outPath := filepath.Join(tmpDir, "output.mp4")

	dst, err := os.Create(inPath)
	if err != nil {
		h.logger.Error("Failed to stage upload", zap.Error(err))
		http.Error(w, "Failed to compose video", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		http.Error(w, fmt.Sprintf("failed to read video: %v", err), http.StatusBadRequest)
		return
	}
	dst.Close()

	vopts := video.Options{
		Style:    opts.Style,
		Colors:   opts.Colors,
		Device:   opts.Device,
		Platform: opts.Platform,
		Width:    opts.Width,
		Height:   opts.Height,
		Scale:    opts.Scale,
		PosX:     opts.PosX,
		PosY:     opts.PosY,
	}
	if err := h.video.Compose(r.Context(), inPath, outPath, vopts); err != nil {
		h.logger.Error("Video composition failed", zap.Error(err))
		http.Error(w, "Failed to compose video", http.StatusInternalServerError)
		return
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		h.logger.Error("Failed to read rendered video", zap.Error(err))
		http.Error(w, "Failed to compose video", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseMockupRequest reads a single-mockup request from either a JSON body
// or a multipart form, returning the raw screenshot bytes and options.
func (h *MockupHandler) parseMockupRequest(r *http.Request) ([]byte, mockup.Options, string, int, error) {
	opts := mockup.DefaultOptions()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req models.MockupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, opts, "", 0, fmt.Errorf("invalid JSON body: %v", err)
		}
		if req.Screenshot == "" {
			return nil, opts, "", 0, fmt.Errorf("screenshot is required")
		}
		shot, err := base64.StdEncoding.DecodeString(req.Screenshot)
		if err != nil {
			return nil, opts, "", 0, fmt.Errorf("invalid base64 screenshot: %v", err)
		}
		opts = OptionsFromRequest(&req)
		return shot, opts, req.Format, req.Quality, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, opts, "", 0, fmt.Errorf("invalid multipart form: %v", err)
	}

	file, _, err := r.FormFile("screenshot")
	if err != nil {
		return nil, opts, "", 0, fmt.Errorf("screenshot file is required")
	}
	defer file.Close()

	shot, err := io.ReadAll(file)
	if err != nil {
		return nil, opts, "", 0, fmt.Errorf("failed to read screenshot: %v", err)
	}

	opts, format, quality, err := optionsFromForm(r)
	if err != nil {
		return nil, opts, "", 0, err
	}
	return shot, opts, format, quality, nil
}

// OptionsFromRequest maps a queue/JSON request onto composer options.
func OptionsFromRequest(req *models.MockupRequest) mockup.Options {
	opts := mockup.DefaultOptions()
	if req.Style != "" {
		opts.Style = background.Style(req.Style)
	}
	opts.Colors = req.Colors
	opts.ProjectPath = req.ProjectPath
	opts.Device = req.Device
	opts.Platform = req.Platform
	opts.Width = req.Width
	opts.Height = req.Height
	opts.Scale = req.Scale
	opts.Angle = req.Angle
	if req.PosX != 0 {
		opts.PosX = req.PosX
	}
	if req.PosY != 0 {
		opts.PosY = req.PosY
	}
	return opts
}

// optionsFromForm maps multipart form values onto composer options.
func optionsFromForm(r *http.Request) (mockup.Options, string, int, error) {
	opts := mockup.DefaultOptions()

	opts.Style = background.Style(formValue(r, "style", string(opts.Style)))
	opts.Colors = r.FormValue("colors")
	opts.ProjectPath = r.FormValue("project_path")
	opts.Device = r.FormValue("device")
	opts.Platform = r.FormValue("platform")

	var err error
	if opts.Width, err = formInt(r, "width"); err != nil {
		return opts, "", 0, err
	}
	if opts.Height, err = formInt(r, "height"); err != nil {
		return opts, "", 0, err
	}
	if opts.Scale, err = formFloat(r, "scale", 0); err != nil {
		return opts, "", 0, err
	}
	if opts.Angle, err = formFloat(r, "angle", 0); err != nil {
		return opts, "", 0, err
	}
	if opts.PosX, err = formFloat(r, "pos_x", opts.PosX); err != nil {
		return opts, "", 0, err
	}
	if opts.PosY, err = formFloat(r, "pos_y", opts.PosY); err != nil {
		return opts, "", 0, err
	}

	format := formValue(r, "format", "png")
	quality, err := formInt(r, "quality")
	if err != nil {
		return opts, "", 0, err
	}
	return opts, format, quality, nil
}

func decodeUpload(fh *multipart.FileHeader) (image.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func writeImage(w http.ResponseWriter, format string, data []byte) {
	contentType := "image/png"
	if format == "jpg" || format == "jpeg" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "invalid",
		"errors": errs,
	})
}
