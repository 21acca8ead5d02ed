package input

import "testing"

func TestControllerInitialState(t *testing.T) {
	c := NewController()
	for control := ControlUp; control < controlCount; control++ {
		if c.Hold(control) {
			t.Errorf("%s should be released initially", control)
		}
	}
}

// TestControllerPressedEdge 只有刚按下的那一帧 Pressed 为 true
func TestControllerPressedEdge(t *testing.T) {
	c := NewController()

	c.Update()
	c.SetControl(ControlAction, true)
	if !c.Pressed(ControlAction) {
		t.Error("Pressed should be true on the first frame")
	}

	c.Update()
	c.SetControl(ControlAction, true)
	if c.Pressed(ControlAction) {
		t.Error("Pressed should be false while held")
	}
	if !c.Hold(ControlAction) {
		t.Error("Hold should be true while held")
	}

	c.Update()
	c.SetControl(ControlAction, false)
	if !c.Released(ControlAction) {
		t.Error("Released should be true on the release frame")
	}
}

func TestControllerReset(t *testing.T) {
	c := NewController()
	c.SetControl(ControlLeft, true)
	c.Update()
	c.SetControl(ControlLeft, true)

	c.Reset()

	if c.Hold(ControlLeft) || c.Released(ControlLeft) || c.Pressed(ControlLeft) {
		t.Error("Reset should clear current and previous state")
	}
}

func TestControllerOutOfRange(t *testing.T) {
	c := NewController()
	c.SetControl(Control(-1), true)
	c.SetControl(controlCount, true)

	if c.Hold(Control(-1)) || c.Pressed(controlCount) {
		t.Error("out of range controls should read as released")
	}
	if got := Control(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
	if got := ControlAction.String(); got != "action" {
		t.Errorf("String() = %q, want action", got)
	}
}

func TestNewKeyboardPollerDefaultKeymap(t *testing.T) {
	c := NewController()
	p := NewKeyboardPoller(c, nil)
	if p.Controller() != c {
		t.Error("poller should write to the given controller")
	}
	if len(p.keymap) != len(DefaultKeymap) {
		t.Errorf("expected default keymap, got %d entries", len(p.keymap))
	}
}
