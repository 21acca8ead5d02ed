package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ScreenKind 顶层画面的种类
//
// 画面种类是一个封闭集合：独立关卡画面或大地图画面。
// ScreenManager 不关心具体类型，只通过 Screen 接口驱动画面。
type ScreenKind int

const (
	// ScreenLevel 关卡画面（直接进入或从大地图进入）
	ScreenLevel ScreenKind = iota
	// ScreenWorldmap 大地图画面
	ScreenWorldmap
)

// String returns a human readable name used in log output.
func (k ScreenKind) String() string {
	switch k {
	case ScreenLevel:
		return "level"
	case ScreenWorldmap:
		return "worldmap"
	default:
		return "unknown"
	}
}

// Screen represents a top-level game screen (a level or a worldmap).
// Only the foreground screen is updated and drawn.
type Screen interface {
	// Kind reports which variant of screen this is.
	Kind() ScreenKind

	// Setup is called every time the screen becomes the foreground screen.
	Setup()

	// Leave is called when the screen stops being the foreground screen,
	// either because another screen was pushed on top or because it was popped.
	Leave()

	// Update updates the screen logic based on the elapsed time in seconds.
	Update(deltaTime float64)

	// Draw renders the screen to the provided image.
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，用于支持画面在游戏退出时保存状态
//
// 实现此接口的画面会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在画面退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}
