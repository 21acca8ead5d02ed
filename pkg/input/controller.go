// Package input 提供与输入设备无关的控制器状态
//
// 画面只读取 Controller 的逻辑按键（上下左右、确认、退出），
// 不直接查询 ebiten 的键盘或触摸状态。
package input

// Control 逻辑按键
type Control int

const (
	ControlUp Control = iota
	ControlDown
	ControlLeft
	ControlRight
	ControlAction // 确认 / 进入关卡
	ControlEscape
	controlCount
)

var controlNames = [controlCount]string{
	"up", "down", "left", "right", "action", "escape",
}

// String returns the control's name.
func (c Control) String() string {
	if c < 0 || c >= controlCount {
		return "unknown"
	}
	return controlNames[c]
}

// Controller 保存当前帧与上一帧的逻辑按键状态
type Controller struct {
	current  [controlCount]bool
	previous [controlCount]bool
}

// NewController creates a controller with every control released.
func NewController() *Controller {
	return &Controller{}
}

// Reset 释放所有按键（包括上一帧状态）
func (c *Controller) Reset() {
	c.current = [controlCount]bool{}
	c.previous = [controlCount]bool{}
}

// SetControl 设置按键当前状态
func (c *Controller) SetControl(control Control, pressed bool) {
	if control < 0 || control >= controlCount {
		return
	}
	c.current[control] = pressed
}

// Hold 报告按键当前是否按下
func (c *Controller) Hold(control Control) bool {
	if control < 0 || control >= controlCount {
		return false
	}
	return c.current[control]
}

// Pressed 报告按键是否在本帧刚刚按下
func (c *Controller) Pressed(control Control) bool {
	if control < 0 || control >= controlCount {
		return false
	}
	return c.current[control] && !c.previous[control]
}

// Released 报告按键是否在本帧刚刚松开
func (c *Controller) Released(control Control) bool {
	if control < 0 || control >= controlCount {
		return false
	}
	return !c.current[control] && c.previous[control]
}

// Update 锁存当前状态，应在每帧读取新输入之前调用
func (c *Controller) Update() {
	c.previous = c.current
}
