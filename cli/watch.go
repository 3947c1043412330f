package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchSettle 合并编辑器保存时连续产生的多个事件。
const watchSettle = 200 * time.Millisecond

// watch 监视 paths 所在目录，paths 中任一文件被写入、创建或替换时调用 reload，直到 ctx 结束。
// 监视目录而不是文件本身，这样编辑器以改名方式保存时不会丢失监视。
func watch(ctx context.Context, paths []string, logger *log.Logger, reload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监视失败: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		logger.Debug("watching path", "path", dir)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("监视 %s 失败: %w", dir, err)
		}
	}
	logger.Info("等待输入文件变化", "files", len(targets))

	mask := fsnotify.Create | fsnotify.Write | fsnotify.Rename
	timer := time.NewTimer(watchSettle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&mask == 0 {
				continue
			}
			name, err := filepath.Abs(evt.Name)
			if err != nil || !targets[name] {
				continue
			}
			logger.Debug("file event", "event", evt.String())
			timer.Reset(watchSettle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("文件监视出错", "error", err)
		case <-timer.C:
			start := time.Now()
			if err := reload(); err != nil {
				logger.Error("重新输出失败", "error", err)
				continue
			}
			logger.Info("已重新输出", "took", time.Since(start).Round(time.Millisecond))
		}
	}
}
