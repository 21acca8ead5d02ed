// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/tux/pkg/config"
	"github.com/decker502/tux/pkg/embedded"
	"github.com/decker502/tux/pkg/game"
	"github.com/decker502/tux/pkg/i18n"
	"github.com/decker502/tux/pkg/input"
	"github.com/decker502/tux/pkg/level"
	"github.com/decker502/tux/pkg/session"
	"github.com/decker502/tux/pkg/world"
)

// Config 定义应用启动配置
type Config struct {
	config.AppConfig

	// World 世界目录，或 WorldsDir 下的世界名；为空时使用内置世界
	World string
	// Level 直接进入的关卡（相对于世界根目录），为空则进入大地图
	Level string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	manager  *session.GameManager
	settings *game.SettingsManager
	poller   *input.KeyboardPoller
	watcher  *level.Watcher
	verbose  bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化内置世界（未初始化时跳过安装）。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// gdata 失败时降级为仅内存的恢复标记
	gdataManager, err := gdata.Open(gdata.Config{AppName: cfg.AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, resume marker will not persist: %v", err)
		gdataManager = nil
	}
	resume := game.NewResumeStore(gdataManager)
	settings := game.NewSettingsManager(gdataManager)
	applySettings(&cfg, settings.GetSettings())

	installBundledWorlds(cfg.WorldsDir())

	basedir := resolveWorldDir(cfg)
	w, err := world.Load(basedir, world.Options{SaveDir: cfg.SaveDir(), Profile: cfg.Profile})
	if err != nil {
		return nil, fmt.Errorf("世界加载失败: %w", err)
	}
	settings.SetLastWorld(w.Basedir())
	settings.SetProfile(cfg.Profile)
	if err := settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	dict := i18n.NewDictionary(cfg.Lang)
	if err := dict.AddDirectory(w.Basedir()); err != nil {
		log.Printf("[App] Warning: world translations: %v", err)
	}
	log.Printf("[App] World: %s (%s)", dict.Translate(w.Title()), w.Basedir())
	names := level.NewNameCache(dict)

	controller := input.NewController()
	manager := session.NewGameManager(game.NewScreenManager(), resume, session.Options{
		Controller: controller,
		Dictionary: dict,
		Names:      names,
	})

	a := &App{
		manager:  manager,
		settings: settings,
		poller:   input.NewKeyboardPoller(controller, nil),
		verbose:  cfg.Verbose,
	}

	if cfg.WatchLevels {
		watcher, err := level.NewWatcher(names, w.Basedir())
		if err != nil {
			log.Printf("[App] Warning: level watcher disabled: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	switch {
	case cfg.Level != "":
		if err := manager.StartLevel(w, cfg.Level); err != nil {
			a.Close()
			return nil, fmt.Errorf("关卡启动失败: %w", err)
		}
	case w.IsLevelset():
		a.Close()
		return nil, fmt.Errorf("world %s is a levelset, a level must be given", w.Basedir())
	default:
		outcome := manager.StartWorldmap(w)
		log.Printf("[App] Worldmap started (resume: %s)", outcome)
		if outcome == session.ResumeFailed && manager.Empty() {
			a.Close()
			return nil, fmt.Errorf("大地图启动失败: %s", w.WorldmapFilename())
		}
	}

	return a, nil
}

// applySettings 用已保存的设置补全未指定的配置项（环境变量和命令行参数优先）
func applySettings(cfg *Config, saved *game.GameSettings) {
	if cfg.Lang == "" {
		cfg.Lang = saved.Language
	}
	if cfg.Profile <= 0 {
		cfg.Profile = saved.Profile
	}
	if cfg.Profile <= 0 {
		cfg.Profile = 1
	}
	if cfg.World == "" && saved.LastWorld != "" {
		if stat, err := os.Stat(saved.LastWorld); err == nil && stat.IsDir() {
			cfg.World = saved.LastWorld
		}
	}
}

// installBundledWorlds 把内置世界复制到数据目录（已存在的世界不会被覆盖）
func installBundledWorlds(worldsDir string) {
	if !embedded.IsInitialized() {
		return
	}
	names, err := embedded.Worlds()
	if err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	for _, name := range names {
		bundle, err := embedded.World(name)
		if err != nil {
			log.Printf("[App] Warning: %v", err)
			continue
		}
		if err := world.InstallBundled(bundle, filepath.Join(worldsDir, name)); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}
}

// resolveWorldDir 世界参数可以是目录路径，也可以是 WorldsDir 下的世界名
func resolveWorldDir(cfg Config) string {
	name := cfg.World
	if name == "" {
		name = config.DefaultWorld
	}
	if stat, err := os.Stat(name); err == nil && stat.IsDir() {
		return name
	}
	return filepath.ToSlash(filepath.Join(cfg.WorldsDir(), name))
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen {
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		}
		a.settings.SetFullscreen(fullscreen)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	a.drainLevelEvents()

	a.poller.Poll()
	deltaTime := 1.0 / 60.0
	a.manager.Update(deltaTime)

	// 所有画面都已退出（例如直接启动的关卡结束）
	if a.manager.Empty() {
		a.Close()
		return ebiten.Termination
	}
	return nil
}

func (a *App) drainLevelEvents() {
	if a.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			log.Printf("[App] Level changed: %s", name)
			changed = true
		default:
			if changed {
				a.manager.LevelsChanged()
			}
			return
		}
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.manager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Settings 返回用户设置
func (a *App) Settings() *game.GameSettings {
	return a.settings.GetSettings()
}

// Manager 返回会话控制器
func (a *App) Manager() *session.GameManager {
	return a.manager
}

// Close 保存状态并释放资源，可以多次调用
func (a *App) Close() {
	if !a.manager.SaveOnExit() {
		log.Printf("[App] Warning: some screens failed to save on exit")
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[App] Warning: closing level watcher: %v", err)
		}
		a.watcher = nil
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
