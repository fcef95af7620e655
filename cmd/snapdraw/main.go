package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"

	"snapdraw/internal/annotate"
	"snapdraw/internal/canvas"
	"snapdraw/internal/clipboard"
	"snapdraw/internal/config"
	"snapdraw/internal/logging"
	"snapdraw/internal/notify"
	"snapdraw/internal/schedule"
	"snapdraw/internal/script"
	"snapdraw/internal/storage"
)

const appName = "SnapDraw"

var (
	configPath = flag.String("config", "", "配置文件路径，默认使用用户配置目录")
	scriptPath = flag.String("script", "", "手势脚本路径，- 表示标准输入")
	outPath    = flag.String("out", "", "输出图片路径，默认按时间戳保存到配置目录")
	width      = flag.Int("width", 0, "覆盖画布宽度")
	height     = flag.Int("height", 0, "覆盖画布高度")
	shape      = flag.String("shape", "", "覆盖绘制方式: fill, stroke, both")
	showConfig = flag.Bool("show-config", false, "显示配置文件路径")
	version    = flag.Bool("version", false, "显示版本信息")
	verbose    = flag.Bool("v", false, "输出调试日志")
	watch      = flag.Bool("watch", false, "按真实时间回放，并在配置文件变化时重新加载")
	openDir    = flag.Bool("open", false, "保存后打开输出目录")
	copyPath   = flag.Bool("copy", false, "保存后将文件路径复制到剪贴板")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(appName, "v1.0.0")
		fmt.Println("椭圆绘制工具 (脚本回放)")
		return
	}

	if *showConfig {
		fmt.Println("配置文件路径:", resolveConfigPath())
		return
	}

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *scriptPath == "" {
		fmt.Println("缺少 -script 参数")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Println("错误:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Println("加载配置失败，使用默认配置:", err)
	}
	applyOverrides(cfg)

	steps, err := readScript(*scriptPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 状态提示写入日志，仅在 -v 时输出；系统通知只用于保存结果
	var recorder *notify.Recorder
	var hints notify.Notifier = notify.LogNotifier{}
	if *verbose {
		recorder = notify.NewRecorder(hints)
		hints = recorder
	}
	status := notify.NewStatus(hints, notify.DefaultCatalog(), appName)
	status.SetEnabled(*verbose)

	var img *image.RGBA
	if *watch {
		img, err = replayLive(ctx, cfg, status, steps)
	} else {
		img, err = replay(ctx, cfg, status, steps)
	}
	if err != nil {
		return err
	}

	if recorder != nil {
		for _, m := range recorder.Messages() {
			fmt.Println("状态:", m.Text)
		}
	}

	store := storage.NewStorage(cfg.Storage.Directory, cfg.Storage.Format, cfg.Storage.Quality)
	savePath := *outPath
	if savePath != "" {
		err = store.SaveAs(img, savePath)
	} else {
		savePath, err = store.Save(img)
	}
	if err != nil {
		return err
	}

	fmt.Println("已保存:", savePath)
	logging.Logger().Info("绘图已保存", "path", savePath)
	notifySaved(notify.NewNotifier(), cfg, savePath)

	if *copyPath {
		if err := clipboard.NewClipboard().SetText(savePath); err != nil {
			fmt.Println("复制失败:", err)
		} else {
			fmt.Println("路径已复制到剪贴板")
		}
	}

	if *openDir {
		openOutputDir(filepath.Dir(savePath))
	}
	return nil
}

// notifySaved 按配置发送保存完成的系统通知
func notifySaved(n notify.Notifier, cfg *config.Config, path string) {
	if !cfg.Behavior.ShowNotification {
		return
	}
	if err := n.Show(appName, "绘图已保存: "+path); err != nil {
		logging.Logger().Warn("通知发送失败", "err", err)
	}
}

func resolveConfigPath() string {
	if *configPath != "" {
		return *configPath
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	if *configPath == "" {
		return config.Load()
	}
	return config.LoadFile(*configPath)
}

// applyOverrides 命令行参数优先于配置文件
func applyOverrides(cfg *config.Config) {
	if *width > 0 {
		cfg.Canvas.Width = *width
	}
	if *height > 0 {
		cfg.Canvas.Height = *height
	}
	if *shape != "" {
		if s, err := annotate.ParseShapeType(*shape); err == nil {
			cfg.Tool.ShapeType = s.String()
		} else {
			fmt.Println("忽略 -shape:", err)
		}
	}
	cfg.Validate()
}

func readScript(path string) ([]script.Step, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("无法打开脚本: %w", err)
		}
		defer f.Close()
		r = f
	}
	return script.Parse(r)
}

// replay 使用虚拟时钟回放，结果与运行速度无关
func replay(ctx context.Context, cfg *config.Config, status *notify.Status, steps []script.Step) (*image.RGBA, error) {
	clock := schedule.NewManual()
	c, err := canvas.New(canvas.OptionsFromConfig(cfg, clock, status))
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if err := c.SetTool(annotate.ToolEllipse); err != nil {
		return nil, err
	}
	if err := script.NewPlayer(c, script.ManualClock(clock)).Play(ctx, steps); err != nil {
		return nil, err
	}

	fmt.Printf("回放完成: %d 条命令, %d 次提交\n", len(steps), c.Commits())
	return c.Snapshot(), nil
}

// replayLive 在事件循环上按真实时间回放，同时监听配置文件
func replayLive(ctx context.Context, cfg *config.Config, status *notify.Status, steps []script.Step) (*image.RGBA, error) {
	loop := schedule.NewLoop(0)
	c, err := canvas.New(canvas.OptionsFromConfig(cfg, loop, status))
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(runCtx) }()

	path := resolveConfigPath()
	go func() {
		err := config.Watch(runCtx, path, func(nc *config.Config) {
			applyOverrides(nc)
			loop.Post(func() { c.ApplyConfig(nc) })
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Logger().Warn("配置监听停止", "err", err)
		}
	}()
	fmt.Println("正在监听配置文件:", path)

	target := script.OnLoop(loop, c)
	clock := script.WallClock{Period: cfg.ToolSettings().DrawDelay}

	playErr := target.SetTool(annotate.ToolEllipse)
	if playErr == nil {
		playErr = script.NewPlayer(target, clock).Play(ctx, steps)
	}

	var snap *image.RGBA
	var commits int
	loop.Do(func() {
		snap = c.Snapshot()
		commits = c.Commits()
		_ = c.Close()
	})
	loop.Close()
	<-loopDone

	if playErr != nil {
		return nil, playErr
	}
	if snap == nil {
		return nil, script.ErrLoopClosed
	}

	fmt.Printf("回放完成: %d 条命令, %d 次提交\n", len(steps), commits)
	return snap, nil
}

func openOutputDir(dir string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer.exe", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}

	if err := cmd.Start(); err != nil {
		fmt.Println("打开目录失败:", err)
	}
}
