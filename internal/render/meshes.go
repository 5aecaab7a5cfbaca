package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"physics-playground/internal/scene"
)

// cached holds mesh and material for a mesh kind. Created lazily on first draw.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// meshCache maps mesh kinds to GPU meshes. Meshes are created on first use
// so that GPU resources are allocated after the window/OpenGL context exists.
type meshCache struct {
	cache    map[scene.Kind]cached
	viewPos  [3]float32 // camera position, set each frame for lighting
	lightDir [3]float32 // direction to light (normalized), set each frame
}

func newMeshCache() *meshCache {
	return &meshCache{
		cache:    make(map[scene.Kind]cached),
		lightDir: [3]float32{0.5, 1, 0.5}, // from above-right
	}
}

const (
	sphereRings  = 24
	sphereSlices = 24
)

// ensure creates the mesh and lit material for kind if not yet cached.
// All meshes are unit sized: sphere radius 1, cube edge 1, plane 1×1 in XZ.
func (r *meshCache) ensure(kind scene.Kind) (cached, bool) {
	if c, ok := r.cache[kind]; ok {
		return c, true
	}
	var mesh rl.Mesh
	switch kind {
	case scene.Sphere:
		mesh = rl.GenMeshSphere(1, sphereRings, sphereSlices)
	case scene.Box:
		mesh = rl.GenMeshCube(1, 1, 1)
	case scene.Plane:
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if shader := loadLitShader(); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[kind] = c
	return c, true
}

// draw draws m with its position, orientation and scale.
// Must be called between BeginMode3D and EndMode3D.
func (r *meshCache) draw(m *scene.Mesh) {
	c, ok := r.ensure(m.Kind)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(m.Color.R, m.Color.G, m.Color.B, m.Color.A)
	}
	r.setLitShaderUniforms(c.mtl.Shader)
	q := m.Orientation
	scaleM := rl.MatrixScale(m.Scale.X, m.Scale.Y, m.Scale.Z)
	rotM := rl.QuaternionToMatrix(rl.NewQuaternion(q.X, q.Y, q.Z, q.W))
	transM := rl.MatrixTranslate(m.Position.X, m.Position.Y, m.Position.Z)
	// Order: scale, then rotate, then translate to position.
	transform := rl.MatrixMultiply(rl.MatrixMultiply(scaleM, rotM), transM)
	rl.DrawMesh(c.mesh, c.mtl, transform)
}

func (r *meshCache) unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		rl.UnloadMaterial(c.mtl)
		delete(r.cache, k)
	}
}
