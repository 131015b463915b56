package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"smartcalc/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, 0.0, p.Float("x"))
	assert.Equal(t, 3, p.Int("x", 3))
	assert.Equal(t, "", p.String("x"))
	assert.True(t, p.Bool("x", true))
	assert.Equal(t, app.DefaultConfig(), p.Config(app.DefaultConfig()))
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", prefsFile)
	cfg := app.DefaultConfig()
	cfg.PenColor = "#ff0000"
	cfg.PenWidth = 12
	cfg.EraserWidth = 40
	cfg.ReportURL = "http://localhost:5000"
	cfg.SkipBlank = false

	p := LoadFrom(path)
	p.SetConfig(cfg)
	p.SetFloat(KeyWindowW, 900)
	require.NoError(t, p.Save())

	loaded := LoadFrom(path)
	assert.Equal(t, cfg, loaded.Config(app.DefaultConfig()))
	assert.Equal(t, 900, loaded.Int(KeyWindowW, 0))
}

func TestWrongTypeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"pen_width":"wide","skip_blank":1}`), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, 7.0, p.FloatWithFallback(KeyPenWidth, 7))
	assert.False(t, p.Bool(KeySkipBlank, false))
}
