package debug

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelWidth    = 220
	buttonHeight  = 30
	buttonSpacing = 8
	panelPadding  = 10
	panelFontSize = 18
)

var (
	panelColor       = rl.NewColor(24, 24, 24, 220)
	buttonColor      = rl.NewColor(60, 60, 60, 255)
	buttonHoverColor = rl.NewColor(90, 90, 90, 255)
)

// Button runs a command script when clicked.
type Button struct {
	Label  string
	Script string
}

// DefaultButtons are the buttons of the playground panel.
var DefaultButtons = []Button{
	{Label: "Clear Scene", Script: "clear"},
	{Label: "Generate Random Box", Script: "box"},
	{Label: "Generate Random Sphere", Script: "sphere"},
}

// Panel is a small button panel in the top-left corner. F1 opens and closes it.
// Clicks are handed to Enqueue so they run between frames, not while drawing.
type Panel struct {
	Open    bool
	Buttons []Button
	Enqueue func(script string)

	hovered bool
}

func NewPanel(enqueue func(script string)) *Panel {
	return &Panel{Buttons: DefaultButtons, Enqueue: enqueue}
}

// Update handles the F1 toggle. Call once per frame.
func (p *Panel) Update() {
	if rl.IsKeyPressed(rl.KeyF1) {
		p.Open = !p.Open
	}
}

// Hovered reports whether the mouse was over the panel in the last frame,
// so the camera can ignore drags that start on it.
func (p *Panel) Hovered() bool {
	return p.Open && p.hovered
}

// Draw draws the panel and handles clicks.
func (p *Panel) Draw() {
	if !p.Open {
		p.hovered = false
		return
	}
	h := float32(panelPadding*2 + len(p.Buttons)*(buttonHeight+buttonSpacing) - buttonSpacing)
	bg := rl.NewRectangle(fpsPadding, fpsPadding, panelWidth, h)
	rl.DrawRectangleRec(bg, panelColor)
	mouse := rl.GetMousePosition()
	p.hovered = rl.CheckCollisionPointRec(mouse, bg)
	for i, b := range p.Buttons {
		r := rl.NewRectangle(
			bg.X+panelPadding,
			bg.Y+panelPadding+float32(i*(buttonHeight+buttonSpacing)),
			panelWidth-2*panelPadding,
			buttonHeight,
		)
		c := buttonColor
		if rl.CheckCollisionPointRec(mouse, r) {
			c = buttonHoverColor
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && p.Enqueue != nil {
				p.Enqueue(b.Script)
			}
		}
		rl.DrawRectangleRec(r, c)
		rl.DrawText(b.Label, int32(r.X)+8, int32(r.Y)+(buttonHeight-panelFontSize)/2, panelFontSize, rl.White)
	}
}
