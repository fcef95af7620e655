package storage

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Storage 绘图结果存储
type Storage struct {
	directory string
	format    string
	quality   int
	now       func() time.Time
}

// NewStorage 创建存储管理器
func NewStorage(directory, format string, quality int) *Storage {
	return &Storage{
		directory: directory,
		format:    format,
		quality:   quality,
		now:       time.Now,
	}
}

// SetDirectory 设置保存目录
func (s *Storage) SetDirectory(dir string) error {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return fmt.Errorf("无法展开目录 %s: %w", dir, err)
	}

	s.directory = dir
	return os.MkdirAll(dir, 0755)
}

// Save 以时间戳命名保存图片，返回文件路径
func (s *Storage) Save(img image.Image) (string, error) {
	dir, err := homedir.Expand(s.directory)
	if err != nil {
		return "", fmt.Errorf("无法展开目录 %s: %w", s.directory, err)
	}

	ext := s.format
	if ext == "" {
		ext = "png"
	}
	timestamp := s.now().Format("20060102_150405")
	filename := fmt.Sprintf("drawing_%s.%s", timestamp, ext)

	path := filepath.Join(dir, filename)
	if err := s.SaveAs(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAs 保存图片到指定路径，按扩展名选择编码器
func (s *Storage) SaveAs(img image.Image, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("无法展开路径: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("无法创建目录: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("无法创建文件: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: s.quality})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("无法保存图片: %w", err)
	}

	return file.Close()
}

// GetDirectory 获取保存目录
func (s *Storage) GetDirectory() string {
	return s.directory
}
