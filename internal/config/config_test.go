package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapdraw/internal/annotate"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg
	cfg.Validate()
	assert.Equal(t, before, *cfg)

	s := cfg.ToolSettings()
	assert.Equal(t, annotate.DefaultDrawDelay, s.DrawDelay)
	assert.Equal(t, annotate.ShapeBoth, s.Shape)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Tool:    Tool{DrawDelayMs: 0, ShapeType: "dotted"},
		Style:   Style{FillColor: " FF0000 ", StrokeColor: "red", LineWidth: -1},
		Canvas:  Canvas{Width: 0, Height: 10, Background: "#12345"},
		Storage: Storage{Directory: "../etc", Format: "JPEG", Quality: 0},
	}
	cfg.Validate()

	d := DefaultConfig()
	assert.Equal(t, d.Tool.DrawDelayMs, cfg.Tool.DrawDelayMs)
	assert.Equal(t, "both", cfg.Tool.ShapeType)
	assert.Equal(t, "#ff0000", cfg.Style.FillColor)
	assert.Equal(t, d.Style.StrokeColor, cfg.Style.StrokeColor)
	assert.Equal(t, d.Style.LineWidth, cfg.Style.LineWidth)
	assert.Equal(t, d.Canvas.Width, cfg.Canvas.Width)
	assert.Equal(t, d.Canvas.Height, cfg.Canvas.Height)
	assert.Equal(t, d.Canvas.Background, cfg.Canvas.Background)
	assert.Equal(t, d.Storage.Directory, cfg.Storage.Directory)
	assert.Equal(t, "jpg", cfg.Storage.Format)
	assert.Equal(t, d.Storage.Quality, cfg.Storage.Quality)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Tool.DrawDelayMs = 40
	cfg.Tool.ShapeType = "stroke"
	cfg.Style.LineWidth = 4.5
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	s := loaded.ToolSettings()
	assert.Equal(t, 40*time.Millisecond, s.DrawDelay)
	assert.Equal(t, annotate.ShapeStroke, s.Shape)
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool]\nshape_type = \"fill\"\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fill", cfg.Tool.ShapeType)
	assert.Equal(t, DefaultConfig().Canvas, cfg.Canvas)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool\n"), 0644))
	cfg, err := LoadFile(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.FillColor = "#ff000080"
	fill, _, bg := cfg.Colors()
	assert.InDelta(t, 1.0, fill.R, 1e-9)
	assert.InDelta(t, 128.0/255, fill.A, 1e-9)
	assert.InDelta(t, 1.0, bg.A, 1e-9)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, DefaultConfig().SaveFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 64)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, path, func(c *Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// 等待监听建立后再写入
	time.Sleep(100 * time.Millisecond)
	cfg := DefaultConfig()
	cfg.Tool.ShapeType = "fill"
	require.NoError(t, cfg.SaveFile(path))

	// 写入过程中可能先读到截断后的空文件，等待最终内容
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-reloaded:
			done = c.Tool.ShapeType == "fill"
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}
