package dashboard

import (
	"math"
	"sync"
)

// DefaultActivationDistance is the pointer travel (in px) that turns a press into a drag.
const DefaultActivationDistance = 8.0

// DragPhase is the state of a single drag gesture.
type DragPhase int

const (
	DragIdle DragPhase = iota
	// DragPending means the pointer is down but has not travelled far enough yet.
	DragPending
	DragActive
)

func (p DragPhase) String() string {
	switch p {
	case DragPending:
		return "pending"
	case DragActive:
		return "dragging"
	default:
		return "idle"
	}
}

// DropPlacement tells the UI where to draw the insertion indicator.
type DropPlacement string

const (
	PlaceNone   DropPlacement = ""
	PlaceBefore DropPlacement = "before"
	PlaceAfter  DropPlacement = "after"
)

// Key is a keyboard input understood by the drag controller.
type Key string

const (
	KeySpace  Key = "space"
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
)

// DragController tracks one pointer or keyboard reorder gesture at a time.
// It never mutates preferences itself; Drop returns the reordered list.
type DragController struct {
	mu         sync.Mutex
	activation float64
	phase      DragPhase
	activeID   string
	overID     string
	keyboard   bool
	// steps is the keyboard offset from the picked-up position.
	steps      int
	originX    float64
	originY    float64
}

// NewDragController builds a controller with the given activation distance.
// Non-positive distances use DefaultActivationDistance.
func NewDragController(activation float64) *DragController {
	if activation <= 0 || math.IsNaN(activation) {
		activation = DefaultActivationDistance
	}
	return &DragController{activation: activation}
}

// Phase returns the current gesture phase.
func (c *DragController) Phase() DragPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// ActiveID returns the widget being dragged, or "" when no drag is active.
func (c *DragController) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != DragActive {
		return ""
	}
	return c.activeID
}

// OverID returns the current candidate drop target.
func (c *DragController) OverID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overID
}

// PointerDown arms a gesture on widgetID. It is ignored outside edit mode or
// while another gesture is in progress.
func (c *DragController) PointerDown(widgetID string, x, y float64, editing bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !editing || widgetID == "" || c.phase != DragIdle {
		return false
	}
	c.phase = DragPending
	c.activeID = widgetID
	c.overID = ""
	c.keyboard = false
	c.steps = 0
	c.originX, c.originY = x, y
	return true
}

// PointerMove activates a pending gesture once the pointer has travelled the
// activation distance. It reports whether a drag is active.
func (c *DragController) PointerMove(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == DragPending && math.Hypot(x-c.originX, y-c.originY) >= c.activation {
		c.phase = DragActive
	}
	return c.phase == DragActive
}

// Hover records the widget under the pointer. Hovering the dragged widget clears the target.
func (c *DragController) Hover(overID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != DragActive {
		return
	}
	if overID == c.activeID {
		overID = ""
	}
	c.overID = overID
}

// Indicator reports where the dragged widget would land relative to the current target.
func (c *DragController) Indicator(prefs []WidgetPreference) (string, DropPlacement) {
	c.mu.Lock()
	activeID, overID, phase := c.activeID, c.overID, c.phase
	c.mu.Unlock()
	if phase != DragActive || overID == "" {
		return "", PlaceNone
	}
	visible, _ := splitByVisibility(Resequence(prefs))
	from := indexOfWidget(visible, activeID)
	to := indexOfWidget(visible, overID)
	if from < 0 || to < 0 {
		return "", PlaceNone
	}
	if from < to {
		return overID, PlaceAfter
	}
	return overID, PlaceBefore
}

// Drop ends the gesture. When a drag is active over a different visible widget
// the reordered list is returned with changed=true; otherwise prefs is returned
// as-is (a press without enough travel is a click, not a drag).
func (c *DragController) Drop(prefs []WidgetPreference) ([]WidgetPreference, bool) {
	c.mu.Lock()
	activeID, overID, phase := c.activeID, c.overID, c.phase
	keyboard, steps := c.keyboard, c.steps
	c.resetLocked()
	c.mu.Unlock()
	if phase != DragActive {
		return prefs, false
	}
	if keyboard {
		return MoveVisibleBy(prefs, activeID, steps)
	}
	return MoveVisible(prefs, activeID, overID)
}

// Cancel aborts any gesture without touching data.
func (c *DragController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// KeyDown drives the keyboard reorder path: space/enter picks up or drops the
// focused widget, arrows step the target through the visible widgets and escape
// cancels. The returned list is only different when a drop moved something.
func (c *DragController) KeyDown(focusedID string, key Key, prefs []WidgetPreference, editing bool) ([]WidgetPreference, bool) {
	c.mu.Lock()
	phase, keyboard := c.phase, c.keyboard
	c.mu.Unlock()

	switch key {
	case KeySpace, KeyEnter:
		if phase == DragIdle {
			c.pickUp(focusedID, editing)
			return prefs, false
		}
		if keyboard {
			return c.Drop(prefs)
		}
	case KeyEscape:
		if keyboard {
			c.Cancel()
		}
	case KeyUp, KeyLeft:
		if keyboard && phase == DragActive {
			c.step(prefs, -1)
		}
	case KeyDown, KeyRight:
		if keyboard && phase == DragActive {
			c.step(prefs, 1)
		}
	}
	return prefs, false
}

func (c *DragController) pickUp(widgetID string, editing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !editing || widgetID == "" || c.phase != DragIdle {
		return
	}
	c.phase = DragActive
	c.keyboard = true
	c.activeID = widgetID
	c.overID = ""
}

func (c *DragController) step(prefs []WidgetPreference, delta int) {
	visible, _ := splitByVisibility(Resequence(prefs))
	c.mu.Lock()
	defer c.mu.Unlock()
	from := indexOfWidget(visible, c.activeID)
	if from < 0 {
		return
	}
	target := clamp(from+c.steps+delta, 0, len(visible)-1)
	c.steps = target - from
	if c.steps == 0 {
		c.overID = ""
		return
	}
	c.overID = visible[target].WidgetID
}

func (c *DragController) resetLocked() {
	c.phase = DragIdle
	c.activeID = ""
	c.overID = ""
	c.keyboard = false
	c.originX, c.originY = 0, 0
}
