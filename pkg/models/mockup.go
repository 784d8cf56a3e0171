package models

import "time"

// MockupRequest is a composition request, received over the queue or as
// an HTTP JSON body. Screenshot carries base64-encoded PNG or JPEG bytes.
// ProjectPath names a server-local project directory whose app icon seeds
// the palette when no explicit colors are given.
type MockupRequest struct {
	Type        string  `json:"type"`
	UUID        string  `json:"uuid"`
	Screenshot  string  `json:"screenshot"`
	Style       string  `json:"style,omitempty"`
	Colors      string  `json:"colors,omitempty"`
	ProjectPath string  `json:"project_path,omitempty"`
	Device      string  `json:"device,omitempty"`
	Platform    string  `json:"platform,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Angle       float64 `json:"angle,omitempty"`
	PosX        float64 `json:"pos_x,omitempty"`
	PosY        float64 `json:"pos_y,omitempty"`
	Format      string  `json:"format,omitempty"`
	Quality     int     `json:"quality,omitempty"`
}

// MockupResult is the rendered output for a queued request.
type MockupResult struct {
	Type        string    `json:"type"`
	UUID        string    `json:"uuid"`
	Style       string    `json:"style"`
	Device      string    `json:"device"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Palette     []string  `json:"palette"` // hex colors actually used
	Output      string    `json:"output"`  // base64 encoded image, empty on error
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}
