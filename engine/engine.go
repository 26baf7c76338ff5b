package engine

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/assets"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/platform"
	"github.com/spaghettifunk/prism/engine/renderer"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/vulkan"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *core.Config
	createInfo   *geometry.GeometryCreateInfo

	stopRequested atomic.Bool
	isSuspended   bool

	platform *platform.Platform
	renderer *renderer.Renderer
	library  *assets.Library
	changes  <-chan assets.Change

	width    uint32
	height   uint32
	clock    *core.Clock
	metrics  *core.Metrics
	lastTime float64
}

// New reads the configuration at configPath. g may be nil.
func New(configPath string, g *Game) (*Engine, error) {
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	createInfo, err := NewGeometryCreateInfo(cfg.Geometry)
	if err != nil {
		return nil, err
	}

	library, err := assets.NewLibrary(cfg.Assets.Dir, createInfo)
	if err != nil {
		return nil, err
	}

	p := platform.New()
	if g == nil {
		g = &Game{}
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		createInfo:   createInfo,
		platform:     p,
		renderer:     renderer.New(vulkan.New(p)),
		library:      library,
		width:        cfg.Application.Width,
		height:       cfg.Application.Height,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}, nil
}

// NewGeometryCreateInfo builds the vertex layout every mesh of the engine
// uses: position, normal and color.
func NewGeometryCreateInfo(cfg core.GeometryConfig) (*geometry.GeometryCreateInfo, error) {
	layout, err := metadata.ParseVertexLayout(cfg.VertexLayout)
	if err != nil {
		return nil, err
	}
	indexType, err := metadata.ParseIndexType(cfg.IndexType)
	if err != nil {
		return nil, err
	}
	return geometry.NewGeometryCreateInfo(layout).
		WithIndexType(indexType).
		AddPosition().
		AddNormal().
		AddColor(), nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	app := e.config.Application
	if err := e.platform.Startup(app.Name, 100, 100, app.Width, app.Height); err != nil {
		return err
	}
	e.platform.SetResizeCallback(e.onResized)

	if err := e.renderer.Initialize(e.config, e.createInfo); err != nil {
		return err
	}

	if err := e.library.LoadAll(); err != nil {
		return err
	}
	for _, m := range e.library.Meshes() {
		if err := e.renderer.SetMesh(m.ID, m.Geometry); err != nil {
			core.LogError(err.Error())
		}
	}
	for _, t := range e.library.Textures() {
		if err := e.renderer.SetTexture(t.ID, t.Mipmap); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.config.Assets.Watch {
		changes, err := e.library.Watch()
		if err != nil {
			return err
		}
		e.changes = changes
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized with %d meshes and %d textures", app.Name, e.renderer.MeshCount(), e.renderer.TextureCount())
	return nil
}

// AddMesh converts mesh with the engine vertex layout and uploads it.
func (e *Engine) AddMesh(mesh *geometry.TriMesh) (uuid.UUID, error) {
	g, err := geometry.NewGeometryFromTriMesh(e.createInfo, mesh)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	if err := e.renderer.SetMesh(id, g); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (e *Engine) RemoveMesh(id uuid.UUID) bool {
	return e.renderer.RemoveMesh(id)
}

func (e *Engine) Config() *core.Config {
	return e.config
}

// MeshOptions returns the TriMesh options matching the engine vertex layout.
func (e *Engine) MeshOptions() geometry.TriMeshOptions {
	return assets.MeshOptions(e.createInfo)
}

// Stop asks Run to return after the current frame. Safe from any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return errors.Newf("engine run in stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()
	lastReport := e.lastTime

	for !e.stopRequested.Load() {
		if e.isSuspended {
			if !e.platform.WaitMessages(0.1) {
				break
			}
			e.applyAssetChanges()
			continue
		}
		if !e.platform.PumpMessages() {
			break
		}
		e.applyAssetChanges()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down.")
				return err
			}
		}

		if err := e.drawFrame(); err != nil {
			core.LogError("Draw frame failed, shutting down.")
			return err
		}

		e.metrics.Update(e.platform.GetAbsoluteTime() - frameStartTime)
		if currentTime-lastReport >= 5 {
			core.LogDebug("%.1f fps, %.2f ms per frame", e.metrics.FPS(), e.metrics.FrameTime())
			lastReport = currentTime
		}
		e.lastTime = currentTime
	}
	return nil
}

// drawFrame draws one frame. A frame skipped on a fence timeout is not an error.
func (e *Engine) drawFrame() error {
	_, err := e.renderer.DrawFrame()
	if err != nil && errors.Is(err, core.ErrFenceTimeout) {
		core.LogWarn("Frame skipped: %s", err.Error())
		return nil
	}
	return err
}

// applyAssetChanges uploads meshes and textures reloaded from disk.
func (e *Engine) applyAssetChanges() {
	if e.changes == nil {
		return
	}
	for {
		select {
		case change, ok := <-e.changes:
			if !ok {
				e.changes = nil
				return
			}
			e.applyChange(change)
		default:
			return
		}
	}
}

func (e *Engine) applyChange(change assets.Change) {
	var err error
	switch {
	case change.Kind == assets.ChangeRemoved && change.Mesh != nil:
		e.renderer.RemoveMesh(change.Mesh.ID)
		core.LogInfo("mesh %s removed", change.Mesh.Name)
	case change.Kind == assets.ChangeRemoved && change.Texture != nil:
		e.renderer.RemoveTexture(change.Texture.ID)
		core.LogInfo("texture %s removed", change.Texture.Name)
	case change.Mesh != nil:
		if err = e.renderer.SetMesh(change.Mesh.ID, change.Mesh.Geometry); err == nil {
			core.LogInfo("mesh %s reloaded", change.Mesh.Name)
		}
	case change.Texture != nil:
		if err = e.renderer.SetTexture(change.Texture.ID, change.Texture.Mipmap); err == nil {
			core.LogInfo("texture %s reloaded", change.Texture.Name)
		}
	}
	if err != nil {
		core.LogError(err.Error())
	}
}

// Shutdown tears down in the reverse order of Initialize.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.library.Close(); err != nil {
		core.LogError(err.Error())
	}
	err := e.renderer.Shutdown()
	e.platform.Shutdown()
	e.currentStage = EngineStageUninitialized
	return err
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onResized(width, height uint32) {
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	e.renderer.OnResize(width, height)
}
