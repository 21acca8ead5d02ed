// Package session decides which top-level screen runs and reconciles an
// interrupted level session with the worldmap the player returns to.
package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/tux/pkg/game"
	"github.com/decker502/tux/pkg/i18n"
	"github.com/decker502/tux/pkg/input"
	"github.com/decker502/tux/pkg/level"
	"github.com/decker502/tux/pkg/scenes"
	"github.com/decker502/tux/pkg/world"
)

// ResumeOutcome 描述 StartWorldmap 的恢复结果
type ResumeOutcome int

const (
	// ResumeNone 没有待恢复的关卡，停留在大地图
	ResumeNone ResumeOutcome = iota
	// ResumeNoLevel 有待恢复的关卡，但 Tux 脚下没有关卡格子
	ResumeNoLevel
	// ResumeMismatch 脚下关卡与待恢复关卡不一致
	ResumeMismatch
	// ResumeEntered 已重新进入被中断的关卡
	ResumeEntered
	// ResumeFailed 启动大地图失败
	ResumeFailed
)

func (o ResumeOutcome) String() string {
	switch o {
	case ResumeNone:
		return "none"
	case ResumeNoLevel:
		return "no-level"
	case ResumeMismatch:
		return "mismatch"
	case ResumeEntered:
		return "entered"
	case ResumeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options 会话控制器的可选协作者
type Options struct {
	Controller *input.Controller // 传给新画面的输入控制器，可为 nil
	Dictionary *i18n.Dictionary  // 关卡名翻译，可为 nil
	Names      *level.NameCache  // 关卡名缓存，为 nil 时直接读取文件
}

// GameManager 会话控制器
//
// 职责：
//   - 直接进入关卡（StartLevel）
//   - 进入世界的大地图（StartWorldmap），并在需要时恢复被中断的关卡
//   - 维护待恢复关卡标记的生命周期：从大地图进入关卡时写入，关卡结束时清除
//
// 所有会话操作和每帧更新都持有同一把锁，恢复标记因此只会被串行访问。
type GameManager struct {
	mu         sync.Mutex
	screens    *game.ScreenManager
	resume     *game.ResumeStore
	controller *input.Controller
	dict       *i18n.Dictionary
	names      *level.NameCache

	world    *world.World
	savegame *game.Savegame

	// resumeSector 非空时，下一次进入关卡从该区段开始
	resumeSector string
}

// NewGameManager 创建会话控制器
//
// 参数：
//   - screens: 画面栈
//   - resume: 待恢复关卡标记存储（由会话控制器独占）
//   - opts: 可选协作者
func NewGameManager(screens *game.ScreenManager, resume *game.ResumeStore, opts Options) *GameManager {
	if screens == nil {
		screens = game.NewScreenManager()
	}
	if resume == nil {
		resume = game.NewResumeStore(nil)
	}
	return &GameManager{
		screens:    screens,
		resume:     resume,
		controller: opts.Controller,
		dict:       opts.Dictionary,
		names:      opts.Names,
	}
}

// Screens returns the screen stack driven by the manager.
func (gm *GameManager) Screens() *game.ScreenManager {
	return gm.screens
}

// ResumeStore returns the resume marker store owned by the manager.
func (gm *GameManager) ResumeStore() *game.ResumeStore {
	return gm.resume
}

// World 当前会话的世界，未开始会话时为 nil
func (gm *GameManager) World() *world.World {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.world
}

// Savegame 当前会话的存档，未开始会话时为 nil
func (gm *GameManager) Savegame() *game.Savegame {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.savegame
}

// loadSavegame 为世界创建新的存档对象并加载（每次会话都重新读取）
func loadSavegame(w *world.World) *game.Savegame {
	savegame := game.NewSavegame(w.SavegameFilename())
	savegame.Load()
	return savegame
}

// StartLevel 直接进入关卡（例如从菜单启动），不做恢复
//
// 参数：
//   - w: 世界描述
//   - filename: 关卡文件名（相对于世界根目录）
//
// 返回：
//   - error: 关卡无法加载或无法压入画面栈
func (gm *GameManager) StartLevel(w *world.World, filename string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if w == nil {
		return fmt.Errorf("start level %s: no world", filename)
	}
	savegame := loadSavegame(w)

	ls, err := scenes.NewLevelScreen(w.Basedir(), filename, savegame)
	if err != nil {
		return fmt.Errorf("start level: %w", err)
	}
	ls.SetController(gm.controller)
	ls.SetOnFinish(func(solved bool) {
		gm.finishStandaloneLevel(ls, savegame, solved)
	})

	if err := gm.screens.PushScreen(ls); err != nil {
		return fmt.Errorf("start level %s: %w", filename, err)
	}
	gm.world, gm.savegame = w, savegame
	log.Printf("[GameManager] Started level %s in world %s", filename, w.Basedir())
	return nil
}

func (gm *GameManager) finishStandaloneLevel(ls *scenes.LevelScreen, savegame *game.Savegame, solved bool) {
	if solved {
		savegame.SetLevelsetSolved(ls.Filename())
		if err := savegame.Save(); err != nil {
			log.Printf("[GameManager] Warning: failed to save progress: %v", err)
		}
	}
	gm.popIfForeground(ls)
}

func (gm *GameManager) popIfForeground(screen game.Screen) {
	if gm.screens.IsForeground(screen) {
		gm.screens.PopScreen()
	}
}

// StartWorldmap 进入世界的大地图，必要时恢复被中断的关卡
//
// 流程：
//  1. 加载存档
//  2. 写入到达标记（只覆盖 basedir）
//  3. 选择大地图：存档中最近访问的大地图优先于世界默认大地图
//  4. 压入大地图画面
//  5. 有待恢复标记时校验 Tux 脚下的关卡，一致则重新进入该关卡
//
// 任何失败（包括 panic）都只记录 FATAL 日志，已压入的画面不会回滚。
//
// 返回：
//   - ResumeOutcome: 恢复结果
func (gm *GameManager) StartWorldmap(w *world.World) (outcome ResumeOutcome) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GameManager] FATAL: Couldn't start world: %v", r)
			outcome = ResumeFailed
		}
	}()

	outcome, err := gm.startWorldmap(w)
	if err != nil {
		log.Printf("[GameManager] FATAL: Couldn't start world: %v", err)
		return ResumeFailed
	}
	return outcome
}

func (gm *GameManager) startWorldmap(w *world.World) (ResumeOutcome, error) {
	if w == nil {
		return ResumeFailed, fmt.Errorf("no world")
	}
	savegame := loadSavegame(w)

	if err := gm.resume.SaveArrival(w.Basedir()); err != nil {
		log.Printf("[GameManager] Warning: failed to save arrival marker: %v", err)
	}

	filename := savegame.PlayerStatus().LastWorldmap
	if filename == "" {
		filename = w.WorldmapFilename()
	}

	wm, err := scenes.NewWorldmap(filename, savegame)
	if err != nil {
		return ResumeFailed, err
	}
	wm.SetController(gm.controller)
	wm.SetBasedir(w.Basedir())
	wm.SetNameCache(gm.names)
	// 大地图始终使用创建它时的世界和存档，即使之后又开始了别的会话
	wm.SetLevelLauncher(func(wm *scenes.Worldmap, tile *scenes.LevelTile) bool {
		return gm.launchLevel(w, savegame, wm, tile)
	})

	if err := gm.screens.PushScreen(wm); err != nil {
		return ResumeFailed, fmt.Errorf("push worldmap %s: %w", filename, err)
	}
	gm.world, gm.savegame = w, savegame
	log.Printf("[GameManager] Started worldmap %s", filename)

	marker := gm.resume.Get()
	if !gm.resume.Loading() || !marker.Pending() {
		return ResumeNone, nil
	}
	return gm.reconcile(w, wm, marker), nil
}

// reconcile 校验待恢复标记与大地图当前状态，一致时重新进入关卡
func (gm *GameManager) reconcile(w *world.World, wm *scenes.Worldmap, marker game.LevelSaveState) ResumeOutcome {
	wm.Setup()

	tile := wm.AtLevel()
	if tile == nil {
		log.Printf("[GameManager] Warning: Player is not standing on an enterable level.")
		return ResumeNoLevel
	}

	// 逐字节比较，不做路径规范化
	expected := w.Basedir() + "/" + tile.Name()
	if expected != marker.Level {
		log.Printf("[GameManager] Warning: Player is not on the previously entered level '%s' (at '%s').",
			marker.Level, expected)
		return ResumeMismatch
	}

	gm.resumeSector = marker.Sector
	entered := wm.EnterLevel(tile)
	gm.resumeSector = ""
	gm.resume.Consume()

	if !entered {
		log.Printf("[GameManager] Warning: Couldn't re-enter level '%s'", marker.Level)
		return ResumeNoLevel
	}
	log.Printf("[GameManager] Resumed level %s at sector %s", marker.Level, marker.Sector)
	return ResumeEntered
}

// launchLevel 是大地图的 LevelLauncher：写入待恢复标记并压入关卡画面
//
// 调用方已持有 gm.mu（会话操作或 Update）。
func (gm *GameManager) launchLevel(w *world.World, savegame *game.Savegame, wm *scenes.Worldmap, tile *scenes.LevelTile) bool {
	ls, err := scenes.NewLevelScreen(w.Basedir(), tile.Name(), savegame)
	if err != nil {
		log.Printf("[GameManager] ERROR: %v", err)
		return false
	}
	if gm.resumeSector != "" {
		ls.SetStartSector(gm.resumeSector)
	}
	ls.SetController(gm.controller)
	ls.SetOnFinish(func(solved bool) {
		gm.finishWorldmapLevel(savegame, wm, tile, ls, solved)
	})

	marker := game.LevelSaveState{
		Basedir: w.Basedir(),
		Level:   w.Basedir() + "/" + tile.Name(),
		Sector:  ls.Sector().Name,
	}
	if err := gm.resume.Save(marker); err != nil {
		log.Printf("[GameManager] Warning: failed to save resume marker: %v", err)
	}

	if err := gm.screens.PushScreen(ls); err != nil {
		log.Printf("[GameManager] ERROR: push level %s: %v", tile.Name(), err)
		return false
	}
	return true
}

// finishWorldmapLevel 关卡结束（通关或放弃）：记录进度、清除标记、回到大地图
func (gm *GameManager) finishWorldmapLevel(savegame *game.Savegame, wm *scenes.Worldmap, tile *scenes.LevelTile, ls *scenes.LevelScreen, solved bool) {
	if solved {
		target := ls.Level().TargetTime
		perfect := target > 0 && ls.Elapsed() <= target
		savegame.SetLevelSolved(wm.Filename(), tile.Name(), perfect)
	}

	if err := gm.resume.Clear(); err != nil {
		log.Printf("[GameManager] Warning: failed to clear resume marker: %v", err)
	}
	if err := savegame.Save(); err != nil {
		log.Printf("[GameManager] Warning: failed to save progress: %v", err)
	}
	gm.popIfForeground(ls)
}

// ReadLevelName 读取关卡名并保留失败原因
func (gm *GameManager) ReadLevelName(filename string) level.NameResult {
	if gm.names != nil {
		return gm.names.Get(filename)
	}
	return level.ReadName(filename, gm.dict)
}

// LevelName 读取关卡名，任何失败都返回空字符串
func (gm *GameManager) LevelName(filename string) string {
	return gm.ReadLevelName(filename).Name
}

// Update advances the foreground screen by deltaTime seconds.
func (gm *GameManager) Update(deltaTime float64) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.screens.Update(deltaTime)
}

// Draw renders the foreground screen.
func (gm *GameManager) Draw(screen *ebiten.Image) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.screens.Draw(screen)
}

// LevelsChanged 关卡文件变化后刷新前台大地图的关卡标题
func (gm *GameManager) LevelsChanged() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	if wm, ok := gm.screens.Current().(*scenes.Worldmap); ok {
		wm.RefreshLevels()
	}
}

// Empty reports whether no screen is left on the stack.
func (gm *GameManager) Empty() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.screens.Len() == 0
}

// SaveOnExit 退出游戏时让所有画面保存状态
func (gm *GameManager) SaveOnExit() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.screens.SaveOnExit()
}
