package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"
	"github.com/mitchellh/go-homedir"

	"snapdraw/internal/annotate"
)

// Tool 绘图工具配置
type Tool struct {
	DrawDelayMs int    `toml:"draw_delay_ms"` // 预览重绘间隔（毫秒）
	ShapeType   string `toml:"shape_type"`    // fill, stroke, both
}

// Style 绘制样式
type Style struct {
	FillColor   string  `toml:"fill_color"`   // 填充颜色（#RRGGBB 或 #RRGGBBAA）
	StrokeColor string  `toml:"stroke_color"` // 描边颜色
	LineWidth   float64 `toml:"line_width"`   // 线宽
}

// Canvas 画布配置
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"` // 图层背景色
}

// Storage 存储配置
type Storage struct {
	Directory string `toml:"directory"` // 保存目录
	Format    string `toml:"format"`    // 图片格式: png, jpg
	Quality   int    `toml:"quality"`   // jpg质量 1-100
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `toml:"show_notification"` // 保存后显示系统通知
}

// Config 主配置结构
type Config struct {
	Tool     Tool     `toml:"tool"`
	Style    Style    `toml:"style"`
	Canvas   Canvas   `toml:"canvas"`
	Storage  Storage  `toml:"storage"`
	Behavior Behavior `toml:"behavior"`
}

const (
	minDrawDelayMs = 1
	maxDrawDelayMs = 1000
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Tool: Tool{
			DrawDelayMs: int(annotate.DefaultDrawDelay / time.Millisecond),
			ShapeType:   annotate.ShapeBoth.String(),
		},
		Style: Style{
			FillColor:   "#3b82f680",
			StrokeColor: "#1e3a8a",
			LineWidth:   2,
		},
		Canvas: Canvas{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		Storage: Storage{
			Directory: "~/Pictures/snapdraw",
			Format:    "png",
			Quality:   90,
		},
		Behavior: Behavior{
			ShowNotification: true,
		},
	}
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	var configDir string

	switch {
	case runtime.GOOS == "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(homeDir(), "AppData", "Roaming")
		}
	case os.Getenv("XDG_CONFIG_HOME") != "":
		configDir = os.Getenv("XDG_CONFIG_HOME")
	default:
		configDir = filepath.Join(homeDir(), ".config")
	}

	return filepath.Join(configDir, "snapdraw", "config.toml")
}

func homeDir() string {
	dir, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return dir
}

// Load 加载默认位置的配置，文件不存在时写入默认配置
func Load() (*Config, error) {
	configPath := GetConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		_ = cfg.Save()
		return cfg, nil
	}

	return LoadFile(configPath)
}

// LoadFile 从指定文件加载配置，出错时返回默认配置和错误
func LoadFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("无法展开路径 %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("无法读取配置 %s: %w", path, err)
	}

	cfg.Validate()
	return cfg, nil
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	if c.Tool.DrawDelayMs < minDrawDelayMs || c.Tool.DrawDelayMs > maxDrawDelayMs {
		c.Tool.DrawDelayMs = defaults.Tool.DrawDelayMs
	}

	shape, err := annotate.ParseShapeType(c.Tool.ShapeType)
	if err != nil {
		shape = annotate.ShapeBoth
	}
	c.Tool.ShapeType = shape.String()

	c.Style.FillColor = normalizeColor(c.Style.FillColor, defaults.Style.FillColor)
	c.Style.StrokeColor = normalizeColor(c.Style.StrokeColor, defaults.Style.StrokeColor)
	if c.Style.LineWidth <= 0 {
		c.Style.LineWidth = defaults.Style.LineWidth
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		c.Canvas.Width = defaults.Canvas.Width
		c.Canvas.Height = defaults.Canvas.Height
	}
	c.Canvas.Background = normalizeColor(c.Canvas.Background, defaults.Canvas.Background)

	// 验证图片质量 (1-100)
	if c.Storage.Quality < 1 || c.Storage.Quality > 100 {
		c.Storage.Quality = defaults.Storage.Quality
	}

	// 验证图片格式
	format := strings.ToLower(c.Storage.Format)
	switch format {
	case "png", "jpg":
		c.Storage.Format = format
	case "jpeg":
		c.Storage.Format = "jpg"
	default:
		c.Storage.Format = defaults.Storage.Format
	}

	// 防止路径遍历
	if c.Storage.Directory == "" || strings.Contains(c.Storage.Directory, "..") {
		c.Storage.Directory = defaults.Storage.Directory
	}
}

// normalizeColor 规范为 "#" 开头的十六进制颜色，无法被 gg.Hex 解析时返回 fallback
func normalizeColor(s, fallback string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return fallback
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fallback
		}
	}
	return "#" + strings.ToLower(hex)
}

// ToolSettings 转换为工具配置
func (c *Config) ToolSettings() annotate.Settings {
	shape, err := annotate.ParseShapeType(c.Tool.ShapeType)
	if err != nil {
		shape = annotate.ShapeBoth
	}
	return annotate.Settings{
		DrawDelay: time.Duration(c.Tool.DrawDelayMs) * time.Millisecond,
		Shape:     shape,
	}
}

// Colors 解析样式颜色
func (c *Config) Colors() (fill, stroke, background gg.RGBA) {
	return gg.Hex(c.Style.FillColor), gg.Hex(c.Style.StrokeColor), gg.Hex(c.Canvas.Background)
}

// Save 保存到默认位置
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile 保存到指定文件
func (c *Config) SaveFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("无法编码配置: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// StorageDir 展开后的保存目录
func (c *Config) StorageDir() (string, error) {
	return homedir.Expand(c.Storage.Directory)
}
