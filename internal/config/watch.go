package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"

	"snapdraw/internal/logging"
)

// Watch 监听配置文件变化，每次写入或重新创建后重新加载并回调 fn
// 监听的是文件所在目录，以兼容编辑器"写临时文件再改名"的保存方式。
// 阻塞直到 ctx 结束。
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("无法创建配置监听: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("无法监听 %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFile(path)
			if err != nil {
				logging.Logger().Warn("配置重载失败", "path", path, "err", err)
				continue
			}
			logging.Logger().Info("配置已重载", "path", path)
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger().Warn("配置监听出错", "err", err)
		}
	}
}
