package testbed

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/math"
)

// TestGame fills an empty scene with generated shapes.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	engine  *engine.Engine
	meshes  []uuid.UUID
	elapsed float64
	width   uint32
	height  uint32
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			State: &gameState{},
		},
	}
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")
	state := g.State.(*gameState)
	state.engine = e
	state.width, state.height = e.GetFramebufferSize()

	opts := e.MeshOptions()
	opts.Scale = math.Vec3{X: 0.4, Y: 0.4, Z: 0.4}

	cubeOpts := opts.WithObjectColor(math.Vec3{X: 0.9, Y: 0.3, Z: 0.2})
	cubeOpts.Translate = math.Vec3{X: -0.5, Y: -0.4}
	sphereOpts := opts.WithObjectColor(math.Vec3{X: 0.2, Y: 0.6, Z: 0.9})
	sphereOpts.Translate = math.Vec3{X: 0.5, Y: -0.4}
	planeOpts := opts
	planeOpts.Translate = math.Vec3{Y: 0.5}

	shapes := []*geometry.TriMesh{
		geometry.CreateCube(math.Vec3{X: 1, Y: 1, Z: 1}, cubeOpts),
		geometry.CreateSphere(0.5, 24, 12, sphereOpts),
		geometry.CreatePlane(geometry.PlaneXY, math.Vec2{X: 1.5, Y: 0.5}, 4, 2, planeOpts),
	}
	for _, shape := range shapes {
		id, err := e.AddMesh(shape)
		if err != nil {
			return err
		}
		state.meshes = append(state.meshes, id)
	}
	core.LogInfo("testbed added %d generated meshes", len(state.meshes))
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime
	return nil
}

func (g *TestGame) OnResize(width, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	for _, id := range state.meshes {
		state.engine.RemoveMesh(id)
	}
	state.meshes = nil
	core.LogDebug("testbed ran for %.1f seconds", state.elapsed)
	return nil
}
