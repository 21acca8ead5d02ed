package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/decker502/tux/pkg/game"
	"github.com/decker502/tux/pkg/input"
	"github.com/decker502/tux/pkg/level"
)

// LevelScreen 关卡画面
//
// 只负责关卡的生命周期：加载关卡、选择起始区段、计时，以及完成或放弃时通知会话控制器。
// 关卡内的玩法不在这里实现。
type LevelScreen struct {
	basedir  string
	filename string
	level    *level.Level
	savegame *game.Savegame

	sector     *level.Sector
	controller *input.Controller
	onFinish   func(solved bool)

	elapsed  float64
	finished bool
}

// NewLevelScreen 加载关卡并创建关卡画面
//
// 参数：
//   - basedir: 世界根目录
//   - filename: 关卡文件名（相对于 basedir）
//   - savegame: 当前世界的存档，可以为 nil
//
// 返回：
//   - *LevelScreen: 关卡画面，起始区段为关卡的默认区段
//   - error: 关卡文件无法读取或不是关卡
func NewLevelScreen(basedir, filename string, savegame *game.Savegame) (*LevelScreen, error) {
	path := basedir + "/" + filename
	lvl, err := level.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", path, err)
	}

	return &LevelScreen{
		basedir:  basedir,
		filename: filename,
		level:    lvl,
		savegame: savegame,
		sector:   lvl.StartSector(),
	}, nil
}

// Kind 实现 game.Screen
func (ls *LevelScreen) Kind() game.ScreenKind {
	return game.ScreenLevel
}

// Basedir 世界根目录
func (ls *LevelScreen) Basedir() string { return ls.basedir }

// Filename 关卡文件名（相对于世界根目录）
func (ls *LevelScreen) Filename() string { return ls.filename }

// Level 已加载的关卡
func (ls *LevelScreen) Level() *level.Level { return ls.level }

// Sector 当前区段
func (ls *LevelScreen) Sector() *level.Sector { return ls.sector }

// SetStartSector 选择起始区段
//
// 区段不存在时保留默认区段并返回 false。空名称表示默认区段。
func (ls *LevelScreen) SetStartSector(name string) bool {
	if name == "" {
		ls.sector = ls.level.StartSector()
		return true
	}
	sector := ls.level.Sector(name)
	if sector == nil {
		log.Printf("[LevelScreen] Warning: sector %q not found in %s, using %q",
			name, ls.filename, ls.level.StartSector().Name)
		return false
	}
	ls.sector = sector
	return true
}

// SetController 设置输入控制器
func (ls *LevelScreen) SetController(controller *input.Controller) {
	ls.controller = controller
}

// SetOnFinish 设置关卡结束回调
func (ls *LevelScreen) SetOnFinish(onFinish func(solved bool)) {
	ls.onFinish = onFinish
}

// Setup 实现 game.Screen
func (ls *LevelScreen) Setup() {
	log.Printf("[LevelScreen] Playing %s (sector %s)", ls.filename, ls.sector.Name)
}

// Leave 实现 game.Screen
func (ls *LevelScreen) Leave() {}

// Elapsed 关卡已进行的时间（秒）
func (ls *LevelScreen) Elapsed() float64 {
	return ls.elapsed
}

// Finished reports whether Finish has been called.
func (ls *LevelScreen) Finished() bool {
	return ls.finished
}

// Finish 结束关卡，只有第一次调用有效
//
// 参数：
//   - solved: true 表示通关，false 表示放弃
func (ls *LevelScreen) Finish(solved bool) {
	if ls.finished {
		return
	}
	ls.finished = true
	log.Printf("[LevelScreen] Finished %s (solved=%v, time=%.1fs)", ls.filename, solved, ls.elapsed)
	if ls.onFinish != nil {
		ls.onFinish(solved)
	}
}

// Update 计时；Escape 放弃关卡，Action 视为到达终点
func (ls *LevelScreen) Update(deltaTime float64) {
	if ls.finished {
		return
	}
	ls.elapsed += deltaTime

	if ls.controller == nil {
		return
	}
	switch {
	case ls.controller.Pressed(input.ControlEscape):
		ls.Finish(false)
	case ls.controller.Pressed(input.ControlAction):
		ls.Finish(true)
	}
}

// Draw 绘制关卡信息和计时
func (ls *LevelScreen) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	w := screen.Bounds().Dx()
	if ls.level.TargetTime > 0 {
		progress := ls.elapsed / ls.level.TargetTime
		if progress > 1 {
			progress = 1
		}
		clr := colornames.Gold
		if ls.elapsed > ls.level.TargetTime {
			clr = colornames.Gray
		}
		vector.DrawFilledRect(screen, 0, 0, float32(float64(w)*progress), 4, clr, false)
	}

	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s\nsector: %s\ntime: %.1f", ls.level.Name, ls.sector.Name, ls.elapsed), 8, 12)
}
