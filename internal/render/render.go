// Package render draws a scene with raylib.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"physics-playground/internal/scene"
)

const (
	gridExtent  = 5
	gridAlpha   = 60
	shadowAlpha = 70
)

// Overlay draws 2D content on top of the 3D scene.
type Overlay interface {
	Draw()
}

// Renderer draws the scene from the orbit camera. Render must be called from the
// goroutine that owns the window.
type Renderer struct {
	Scene  *scene.Scene
	Camera *OrbitCamera
	// Background is the clear color.
	Background rl.Color
	// GridVisible draws a unit grid on the floor.
	GridVisible bool
	// Overlays are drawn in order after the 3D pass.
	Overlays []Overlay

	meshes *meshCache
}

func New(scn *scene.Scene, cam *OrbitCamera) *Renderer {
	return &Renderer{
		Scene:      scn,
		Camera:     cam,
		Background: rl.NewColor(30, 30, 36, 255),
		meshes:     newMeshCache(),
	}
}

// Render draws one frame.
func (r *Renderer) Render() {
	p := r.Camera.Camera.Position
	r.meshes.viewPos = [3]float32{p.X, p.Y, p.Z}

	rl.BeginDrawing()
	rl.ClearBackground(r.Background)
	rl.BeginMode3D(r.Camera.Camera)
	for m := range r.Scene.Meshes() {
		r.meshes.draw(m)
		if m.CastShadow {
			drawBlobShadow(m)
		}
	}
	if r.GridVisible {
		drawGrid()
	}
	rl.EndMode3D()
	for _, o := range r.Overlays {
		o.Draw()
	}
	rl.EndDrawing()
}

// Close releases GPU resources. Call before closing the window.
func (r *Renderer) Close() {
	r.meshes.unload()
}

// drawBlobShadow draws a flat disc under m on the floor, fading with height.
func drawBlobShadow(m *scene.Mesh) {
	h := m.Position.Y
	if h < 0 {
		return
	}
	radius := max(m.Scale.X, m.Scale.Z) * 0.6
	a := uint8(max(shadowAlpha-int(h*10), 10))
	pos := rl.NewVector3(m.Position.X, 0.001, m.Position.Z)
	rl.DrawCylinder(pos, radius, radius, 0.001, 16, rl.NewColor(0, 0, 0, a))
}

// drawGrid draws grid lines on the XZ plane (Y=0) just above the floor.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawGrid() {
	c := rl.NewColor(160, 160, 160, gridAlpha)
	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i++ {
		start.X, start.Y, start.Z = float32(i), 0.002, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0.002, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0.002, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0.002, float32(i)
		rl.DrawLine3D(start, end, c)
	}
}
