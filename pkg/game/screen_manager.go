package game

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// ErrNilScreen is returned when pushing a nil screen.
	ErrNilScreen = errors.New("screen is nil")
	// ErrScreenAlreadyActive is returned when a screen is pushed twice.
	ErrScreenAlreadyActive = errors.New("screen is already on the stack")
)

// ScreenManager manages the game's top-level state by controlling an ordered
// stack of screens. Only the top screen (the foreground screen) receives
// Update and Draw calls; screens below it are suspended, not destroyed.
type ScreenManager struct {
	screens []Screen
}

// NewScreenManager creates and returns a new ScreenManager instance.
// The manager starts with an empty stack; use PushScreen to set the first screen.
func NewScreenManager() *ScreenManager {
	return &ScreenManager{
		screens: []Screen{},
	}
}

// PushScreen 压入新画面并使其成为前台画面
//
// 原前台画面会收到 Leave()，但保留在栈中（挂起而非销毁）。
// 新画面会收到 Setup()。
//
// 返回：
//   - error: 画面为 nil 或已在栈中时返回错误，栈保持不变
func (sm *ScreenManager) PushScreen(screen Screen) error {
	if screen == nil {
		return ErrNilScreen
	}
	if sm.Contains(screen) {
		return ErrScreenAlreadyActive
	}

	if current := sm.Current(); current != nil {
		current.Leave()
	}

	sm.screens = append(sm.screens, screen)
	log.Printf("[ScreenManager] Pushed %s screen (depth=%d)", screen.Kind(), len(sm.screens))
	screen.Setup()
	return nil
}

// PopScreen 弹出前台画面，下一层画面重新成为前台画面
//
// 返回：
//   - Screen: 被弹出的画面，栈为空时返回 nil
func (sm *ScreenManager) PopScreen() Screen {
	if len(sm.screens) == 0 {
		return nil
	}

	top := sm.screens[len(sm.screens)-1]
	sm.screens[len(sm.screens)-1] = nil
	sm.screens = sm.screens[:len(sm.screens)-1]
	top.Leave()
	log.Printf("[ScreenManager] Popped %s screen (depth=%d)", top.Kind(), len(sm.screens))

	if current := sm.Current(); current != nil {
		current.Setup()
	}
	return top
}

// Current returns the foreground screen, or nil if the stack is empty.
func (sm *ScreenManager) Current() Screen {
	if len(sm.screens) == 0 {
		return nil
	}
	return sm.screens[len(sm.screens)-1]
}

// IsForeground reports whether screen is the current foreground screen.
func (sm *ScreenManager) IsForeground(screen Screen) bool {
	return screen != nil && sm.Current() == screen
}

// Contains reports whether screen is anywhere on the stack.
func (sm *ScreenManager) Contains(screen Screen) bool {
	for _, s := range sm.screens {
		if s == screen {
			return true
		}
	}
	return false
}

// Len returns the number of screens on the stack.
func (sm *ScreenManager) Len() int {
	return len(sm.screens)
}

// Update updates the foreground screen.
// If no screen is active, this method does nothing.
func (sm *ScreenManager) Update(deltaTime float64) {
	if current := sm.Current(); current != nil {
		current.Update(deltaTime)
	}
}

// Draw renders the foreground screen to the provided image.
// If no screen is active, this method does nothing.
func (sm *ScreenManager) Draw(screen *ebiten.Image) {
	if current := sm.Current(); current != nil {
		current.Draw(screen)
	}
}

// SaveOnExit 让栈中所有可保存的画面保存状态
//
// 从前台到底层依次调用，返回是否全部保存成功。
func (sm *ScreenManager) SaveOnExit() bool {
	ok := true
	for i := len(sm.screens) - 1; i >= 0; i-- {
		if s, isSaveable := sm.screens[i].(Saveable); isSaveable {
			if !s.SaveOnExit() {
				ok = false
			}
		}
	}
	return ok
}
