// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"smartcalc/internal/app"
)

const prefsFile = "preferences.json"

// Preference keys.
const (
	KeyPenColor    = "pen_color"
	KeyPenWidth    = "pen_width"
	KeyEraserWidth = "eraser_width"
	KeyLanguage    = "ocr_language"
	KeySingleLine  = "ocr_single_line"
	KeyHistoryPath = "history_path"
	KeyReportURL   = "report_url"
	KeySkipBlank   = "skip_blank"
	KeyWindowW     = "window_width"
	KeyWindowH     = "window_height"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/smartcalc/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "smartcalc", prefsFile))
}

// LoadFrom reads preferences from path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the preferences file location.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

func (p *Prefs) number(key string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}

// Float returns a float64 preference, or 0 if not set.
func (p *Prefs) Float(key string) float64 {
	n, _ := p.number(key)
	return n
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	if n, ok := p.number(key); ok {
		return n
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Int returns an int preference, or fallback if not set.
func (p *Prefs) Int(key string, fallback int) int {
	if n, ok := p.number(key); ok {
		return int(n)
	}
	return fallback
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	return p.StringWithFallback(key, "")
}

// StringWithFallback returns a string preference, or fallback if not set.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Config overlays the stored preferences on base.
func (p *Prefs) Config(base app.Config) app.Config {
	cfg := base
	cfg.PenColor = p.StringWithFallback(KeyPenColor, base.PenColor)
	cfg.PenWidth = p.FloatWithFallback(KeyPenWidth, base.PenWidth)
	cfg.EraserWidth = p.FloatWithFallback(KeyEraserWidth, base.EraserWidth)
	cfg.Language = p.StringWithFallback(KeyLanguage, base.Language)
	cfg.SingleLine = p.Bool(KeySingleLine, base.SingleLine)
	cfg.HistoryPath = p.StringWithFallback(KeyHistoryPath, base.HistoryPath)
	cfg.ReportURL = p.StringWithFallback(KeyReportURL, base.ReportURL)
	cfg.SkipBlank = p.Bool(KeySkipBlank, base.SkipBlank)
	return cfg
}

// SetConfig stores the user-adjustable parts of cfg.
func (p *Prefs) SetConfig(cfg app.Config) {
	p.SetString(KeyPenColor, cfg.PenColor)
	p.SetFloat(KeyPenWidth, cfg.PenWidth)
	p.SetFloat(KeyEraserWidth, cfg.EraserWidth)
	p.SetString(KeyLanguage, cfg.Language)
	p.SetBool(KeySingleLine, cfg.SingleLine)
	p.SetString(KeyHistoryPath, cfg.HistoryPath)
	p.SetString(KeyReportURL, cfg.ReportURL)
	p.SetBool(KeySkipBlank, cfg.SkipBlank)
}
