package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DefaultKeymap 默认键位
var DefaultKeymap = map[Control][]ebiten.Key{
	ControlUp:     {ebiten.KeyArrowUp, ebiten.KeyW},
	ControlDown:   {ebiten.KeyArrowDown, ebiten.KeyS},
	ControlLeft:   {ebiten.KeyArrowLeft, ebiten.KeyA},
	ControlRight:  {ebiten.KeyArrowRight, ebiten.KeyD},
	ControlAction: {ebiten.KeyEnter, ebiten.KeySpace},
	ControlEscape: {ebiten.KeyEscape},
}

// KeyboardPoller 每帧把键盘和触摸状态写入 Controller
//
// 同时支持键盘和触摸输入：任意触摸视为确认键（移动端）。
type KeyboardPoller struct {
	controller *Controller
	keymap     map[Control][]ebiten.Key
}

// NewKeyboardPoller 创建键盘轮询器
//
// 参数：
//   - controller: 要写入的控制器
//   - keymap: 键位表，为 nil 时使用 DefaultKeymap
func NewKeyboardPoller(controller *Controller, keymap map[Control][]ebiten.Key) *KeyboardPoller {
	if keymap == nil {
		keymap = DefaultKeymap
	}
	return &KeyboardPoller{
		controller: controller,
		keymap:     keymap,
	}
}

// Controller returns the controller this poller writes to.
func (p *KeyboardPoller) Controller() *Controller {
	return p.controller
}

// Poll 读取本帧输入
// 应该在每帧更新画面之前调用
func (p *KeyboardPoller) Poll() {
	p.controller.Update()

	for control, keys := range p.keymap {
		pressed := false
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				pressed = true
				break
			}
		}
		p.controller.SetControl(control, pressed)
	}

	// 触摸设备：点击即确认
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		p.controller.SetControl(ControlAction, true)
	}
}
