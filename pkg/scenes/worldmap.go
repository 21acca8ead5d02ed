package scenes

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/decker502/tux/pkg/game"
	"github.com/decker502/tux/pkg/input"
	"github.com/decker502/tux/pkg/level"
)

const (
	// WorldmapRootTag 大地图文档的根标签
	WorldmapRootTag = "supertux-worldmap"
	// DefaultSpawnpoint 默认出生点名称
	DefaultSpawnpoint = "main"

	worldmapTileSize = 32
)

// LevelTile 大地图上可以进入的关卡格子
type LevelTile struct {
	name     string
	X, Y     int
	AutoPlay bool   // 走到格子上时自动进入
	Solved   bool   // 来自存档
	Title    string // 翻译后的关卡名，未读取时为空
}

// Name 关卡文件名（相对于世界根目录）
func (t *LevelTile) Name() string {
	return t.name
}

// LevelLauncher 进入关卡的回调，由会话控制器提供
//
// 返回 true 表示关卡画面已成功压入。
type LevelLauncher func(wm *Worldmap, tile *LevelTile) bool

type spawnpoint struct {
	X, Y int
}

// Worldmap 大地图画面
//
// 职责：
//   - 读取大地图文件（关卡格子、出生点、尺寸）
//   - 根据存档恢复 Tux 的位置
//   - 处理移动和确认输入，确认时进入脚下的关卡
//
// 移动规则保持最简单：在地图范围内按格子移动，不做路径限制。
type Worldmap struct {
	filename    string
	basedir     string // 关卡名相对的目录
	name        string
	width       int
	height      int
	spawnpoints map[string]spawnpoint
	levels      []*LevelTile

	savegame   *game.Savegame
	controller *input.Controller
	names      *level.NameCache
	launcher   LevelLauncher

	tuxX, tuxY int
	setupDone  bool
	elapsed    float64
}

// NewWorldmap 读取大地图文件并创建大地图画面
//
// 参数：
//   - filename: 大地图文件路径
//   - savegame: 当前世界的存档（大地图会在其中记录 Tux 位置和最近访问的大地图）
//
// 返回：
//   - *Worldmap: 大地图画面（尚未 Setup）
//   - error: 文件无法读取或不是大地图文档
func NewWorldmap(filename string, savegame *game.Savegame) (*Worldmap, error) {
	doc, err := level.ParseDocument(filename)
	if err != nil {
		return nil, fmt.Errorf("load worldmap: %w", err)
	}
	root := doc.Root()
	if root.Name() != WorldmapRootTag {
		return nil, fmt.Errorf("load worldmap %s: unexpected root %q", filename, root.Name())
	}
	mapping, err := root.Mapping()
	if err != nil {
		return nil, fmt.Errorf("load worldmap %s: %w", filename, err)
	}

	wm := &Worldmap{
		filename:    filename,
		basedir:     filepath.Dir(filename),
		savegame:    savegame,
		spawnpoints: map[string]spawnpoint{},
	}
	mapping.GetString("name", &wm.name)
	mapping.GetInt("width", &wm.width)
	mapping.GetInt("height", &wm.height)

	for _, sp := range mapping.GetMappings("spawnpoints") {
		var name string
		var p spawnpoint
		if !sp.GetString("name", &name) {
			continue
		}
		sp.GetInt("x", &p.X)
		sp.GetInt("y", &p.Y)
		wm.spawnpoints[name] = p
	}

	for _, lm := range mapping.GetMappings("levels") {
		tile := &LevelTile{}
		if !lm.GetString("name", &tile.name) || tile.name == "" {
			log.Printf("[Worldmap] Warning: level without name in %s, skipping", filename)
			continue
		}
		lm.GetInt("x", &tile.X)
		lm.GetInt("y", &tile.Y)
		lm.GetBool("auto-play", &tile.AutoPlay)
		wm.levels = append(wm.levels, tile)
	}

	log.Printf("[Worldmap] Loaded %s: %d levels, %d spawnpoints", filename, len(wm.levels), len(wm.spawnpoints))
	return wm, nil
}

// Kind 实现 game.Screen
func (wm *Worldmap) Kind() game.ScreenKind {
	return game.ScreenWorldmap
}

// SetBasedir 设置关卡名相对的目录，默认为大地图文件所在目录
//
// 大地图位于世界的子目录时，关卡仍然相对于世界根目录。
func (wm *Worldmap) SetBasedir(dir string) {
	wm.basedir = dir
}

// Basedir returns the directory tile names are resolved against.
func (wm *Worldmap) Basedir() string {
	return wm.basedir
}

// SetController 设置输入控制器（nil 表示不处理输入）
func (wm *Worldmap) SetController(controller *input.Controller) {
	wm.controller = controller
}

// SetNameCache 设置关卡名缓存，用于显示脚下关卡的标题
func (wm *Worldmap) SetNameCache(names *level.NameCache) {
	wm.names = names
}

// SetLevelLauncher 设置进入关卡的回调
func (wm *Worldmap) SetLevelLauncher(launcher LevelLauncher) {
	wm.launcher = launcher
}

// Filename 大地图文件路径
func (wm *Worldmap) Filename() string {
	return wm.filename
}

// Name 大地图名称
func (wm *Worldmap) Name() string {
	return wm.name
}

// Levels 所有关卡格子
func (wm *Worldmap) Levels() []*LevelTile {
	return wm.levels
}

// TuxPosition Tux 当前所在格子
func (wm *Worldmap) TuxPosition() (int, int) {
	return wm.tuxX, wm.tuxY
}

// Setup 画面成为前台时调用
//
// 第一次调用时完成一次性初始化：根据存档（或出生点）放置 Tux。
// 之后每次调用只刷新关卡完成状态和标题。可以在没有任何 Update 的情况下直接调用，
// 调用后 AtLevel 即可查询。
func (wm *Worldmap) Setup() {
	if !wm.setupDone {
		wm.placeTux()
		wm.setupDone = true
	}
	wm.RefreshLevels()
}

func (wm *Worldmap) placeTux() {
	if wm.savegame != nil {
		state := wm.savegame.WorldmapState(wm.filename)
		if state.HasTux {
			wm.tuxX, wm.tuxY = state.TuxX, state.TuxY
			return
		}
	}

	if sp, ok := wm.spawnpoints[DefaultSpawnpoint]; ok {
		wm.tuxX, wm.tuxY = sp.X, sp.Y
		return
	}
	log.Printf("[Worldmap] Warning: no spawnpoint %q in %s, starting at (0,0)", DefaultSpawnpoint, wm.filename)
}

// RefreshLevels 重新读取关卡完成状态和标题
func (wm *Worldmap) RefreshLevels() {
	for _, tile := range wm.levels {
		if wm.savegame != nil {
			tile.Solved = wm.savegame.IsLevelSolved(wm.filename, tile.name)
		}
		if wm.names != nil {
			tile.Title = wm.names.Name(wm.levelPath(tile))
		}
	}
}

// Leave 画面离开前台时把 Tux 位置写入存档（内存）
func (wm *Worldmap) Leave() {
	wm.storeState()
}

func (wm *Worldmap) storeState() {
	if wm.savegame == nil || !wm.setupDone {
		return
	}
	wm.savegame.SetTuxPosition(wm.filename, wm.tuxX, wm.tuxY)
	wm.savegame.PlayerStatus().LastWorldmap = wm.filename
}

// SaveOnExit 实现 game.Saveable：退出游戏时记录 Tux 位置并写入存档
func (wm *Worldmap) SaveOnExit() bool {
	wm.storeState()
	if wm.savegame == nil {
		return true
	}
	if err := wm.savegame.Save(); err != nil {
		log.Printf("[Worldmap] ERROR: failed to save on exit: %v", err)
		return false
	}
	return true
}

// AtLevel 返回 Tux 脚下的关卡格子，没有时返回 nil
func (wm *Worldmap) AtLevel() *LevelTile {
	for _, tile := range wm.levels {
		if tile.X == wm.tuxX && tile.Y == wm.tuxY {
			return tile
		}
	}
	return nil
}

// EnterLevel 进入指定关卡
//
// 先把 Tux 位置和最近访问的大地图写入存档并保存，再调用 LevelLauncher。
//
// 返回：
//   - bool: 关卡画面是否成功压入
func (wm *Worldmap) EnterLevel(tile *LevelTile) bool {
	if tile == nil {
		return false
	}
	if wm.launcher == nil {
		log.Printf("[Worldmap] Warning: no level launcher, cannot enter %s", tile.name)
		return false
	}

	wm.storeState()
	if wm.savegame != nil {
		if err := wm.savegame.Save(); err != nil {
			log.Printf("[Worldmap] Warning: failed to save before entering level: %v", err)
		}
	}

	log.Printf("[Worldmap] Entering level %s at (%d,%d)", tile.name, tile.X, tile.Y)
	return wm.launcher(wm, tile)
}

// Update 处理输入：方向键移动 Tux，确认键进入脚下的关卡
func (wm *Worldmap) Update(deltaTime float64) {
	wm.elapsed += deltaTime
	if wm.controller == nil {
		return
	}

	moved := false
	switch {
	case wm.controller.Pressed(input.ControlUp):
		moved = wm.move(0, -1)
	case wm.controller.Pressed(input.ControlDown):
		moved = wm.move(0, 1)
	case wm.controller.Pressed(input.ControlLeft):
		moved = wm.move(-1, 0)
	case wm.controller.Pressed(input.ControlRight):
		moved = wm.move(1, 0)
	}

	tile := wm.AtLevel()
	if tile == nil {
		return
	}
	if wm.controller.Pressed(input.ControlAction) || (moved && tile.AutoPlay && !tile.Solved) {
		wm.EnterLevel(tile)
	}
}

func (wm *Worldmap) move(dx, dy int) bool {
	x, y := wm.tuxX+dx, wm.tuxY+dy
	if x < 0 || y < 0 {
		return false
	}
	if (wm.width > 0 && x >= wm.width) || (wm.height > 0 && y >= wm.height) {
		return false
	}
	wm.tuxX, wm.tuxY = x, y
	return true
}

// Draw 绘制大地图（调试风格：关卡格子和 Tux 的方块）
func (wm *Worldmap) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Lightskyblue)

	for _, tile := range wm.levels {
		clr := colornames.Crimson
		if tile.Solved {
			clr = colornames.Forestgreen
		}
		vector.DrawFilledRect(screen,
			float32(tile.X*worldmapTileSize+8), float32(tile.Y*worldmapTileSize+8),
			worldmapTileSize-16, worldmapTileSize-16, clr, false)
	}
	vector.DrawFilledCircle(screen,
		float32(wm.tuxX*worldmapTileSize+worldmapTileSize/2), float32(wm.tuxY*worldmapTileSize+worldmapTileSize/2),
		worldmapTileSize/3, colornames.Black, false)

	status := wm.name
	if tile := wm.AtLevel(); tile != nil {
		title := tile.Title
		if title == "" {
			title = tile.name
		}
		status = fmt.Sprintf("%s - %s", wm.name, title)
	}
	ebitenutil.DebugPrint(screen, status)
}

// levelPath 关卡文件路径：basedir + "/" + 关卡名
func (wm *Worldmap) levelPath(tile *LevelTile) string {
	return wm.basedir + "/" + tile.name
}
