package assets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/geometry"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
	"github.com/spaghettifunk/prism/engine/renderer/mipmap"
)

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeMesh
	AssetTypeTexture
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeMesh:
		return "mesh"
	case AssetTypeTexture:
		return "texture"
	}
	return "none"
}

type ChangeKind uint8

const (
	ChangeLoaded ChangeKind = iota
	ChangeRemoved
)

/**
 * @brief A mesh loaded from disk. The ID survives reloads of the same path.
 */
type MeshAsset struct {
	ID         uuid.UUID
	Name       string
	Path       string
	Mesh       *geometry.TriMesh
	Geometry   *geometry.Geometry
	LastLoaded time.Time
}

/**
 * @brief A texture loaded from disk with its full mip chain.
 */
type TextureAsset struct {
	ID         uuid.UUID
	Name       string
	Path       string
	Mipmap     *mipmap.Mipmap
	LastLoaded time.Time
}

// Change is emitted by a watching library. Exactly one of Mesh and Texture is set.
type Change struct {
	Kind    ChangeKind
	Type    AssetType
	Mesh    *MeshAsset
	Texture *TextureAsset
}

/**
 * @brief Indexes the meshes (.obj) and textures (.png, .jpg) found under a
 * directory. Meshes are converted with a single geometry create info.
 */
type Library struct {
	dir        string
	createInfo *geometry.GeometryCreateInfo
	options    geometry.TriMeshOptions

	meshes   map[string]*MeshAsset
	textures map[string]*TextureAsset
	mutex    sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	changes  chan Change
	wg       sync.WaitGroup
}

func NewLibrary(dir string, createInfo *geometry.GeometryCreateInfo) (*Library, error) {
	if createInfo == nil {
		return nil, errors.Wrap(core.ErrInvalidCreateArgument, "assets: nil geometry create info")
	}
	return &Library{
		dir:        dir,
		createInfo: createInfo,
		options:    MeshOptions(createInfo),
		meshes:     make(map[string]*MeshAsset),
		textures:   make(map[string]*TextureAsset),
	}, nil
}

// MeshOptions enables the TriMesh attributes the create info consumes.
func MeshOptions(createInfo *geometry.GeometryCreateInfo) geometry.TriMeshOptions {
	opts := geometry.DefaultTriMeshOptions()
	opts.Indices = createInfo.IndexType != metadata.IndexTypeUndefined
	opts.Normals = createInfo.HasAttribute(metadata.VertexSemanticNormal)
	opts.VertexColors = createInfo.HasAttribute(metadata.VertexSemanticColor)
	opts.TexCoords = createInfo.HasAttribute(metadata.VertexSemanticTexcoord0)
	opts.Tangents = createInfo.HasAttribute(metadata.VertexSemanticTangent) ||
		createInfo.HasAttribute(metadata.VertexSemanticBitangent)
	return opts
}

func (l *Library) Dir() string {
	return l.dir
}

// LoadAll loads every known asset under the library directory. Files that
// fail to load are logged and skipped.
func (l *Library) LoadAll() error {
	if _, err := os.Stat(l.dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			core.LogWarn("assets directory %s not found", l.dir)
			return nil
		}
		return errors.Mark(errors.Wrapf(err, "reading %s", l.dir), core.ErrLoadFailed)
	}
	return filepath.Walk(l.dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if _, err := l.Load(path); err != nil && !errors.Is(err, errUnknownAsset) {
			core.LogError("failed to load %s: %s", path, err.Error())
		}
		return nil
	})
}

var errUnknownAsset = errors.New("unknown asset type")

// Load (re)loads the asset at path. A failed reload keeps the previous content.
func (l *Library) Load(path string) (Change, error) {
	switch determineAssetType(path) {
	case AssetTypeMesh:
		asset, err := l.LoadMesh(path)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeLoaded, Type: AssetTypeMesh, Mesh: asset}, nil
	case AssetTypeTexture:
		asset, err := l.LoadTexture(path)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeLoaded, Type: AssetTypeTexture, Texture: asset}, nil
	}
	return Change{}, errors.Wrapf(errUnknownAsset, "%s", path)
}

func (l *Library) LoadMesh(path string) (*MeshAsset, error) {
	path = filepath.Clean(path)
	mesh, err := geometry.CreateTriMeshFromOBJ(path, l.options)
	if err != nil {
		return nil, err
	}
	g, err := geometry.NewGeometryFromTriMesh(l.createInfo, mesh)
	if err != nil {
		return nil, errors.Wrapf(err, "building geometry for %s", path)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	asset, exists := l.meshes[path]
	if !exists {
		asset = &MeshAsset{ID: uuid.New(), Name: assetName(path), Path: path}
	}
	// the previous asset may still be referenced by a renderer
	updated := *asset
	updated.Mesh = mesh
	updated.Geometry = g
	updated.LastLoaded = time.Now()
	l.meshes[path] = &updated
	core.LogDebug("mesh %s loaded: %d vertices, %d indices", updated.Name, g.VertexCount(), g.IndexCount())
	return &updated, nil
}

func (l *Library) LoadTexture(path string) (*TextureAsset, error) {
	path = filepath.Clean(path)
	m, err := mipmap.LoadFile(path, 0)
	if err != nil {
		return nil, err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	asset, exists := l.textures[path]
	if !exists {
		asset = &TextureAsset{ID: uuid.New(), Name: assetName(path), Path: path}
	}
	updated := *asset
	updated.Mipmap = m
	updated.LastLoaded = time.Now()
	l.textures[path] = &updated
	core.LogDebug("texture %s loaded: %dx%d, %d levels", updated.Name, m.Width(0), m.Height(0), m.LevelCount())
	return &updated, nil
}

// Mesh looks a mesh up by name, the file name without extension.
func (l *Library) Mesh(name string) (*MeshAsset, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	for _, m := range l.meshes {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (l *Library) Texture(name string) (*TextureAsset, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	for _, t := range l.textures {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Meshes returns the loaded meshes sorted by path.
func (l *Library) Meshes() []*MeshAsset {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	out := make([]*MeshAsset, 0, len(l.meshes))
	for _, m := range l.meshes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (l *Library) Textures() []*TextureAsset {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	out := make([]*TextureAsset, 0, len(l.textures))
	for _, t := range l.textures {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Remove drops the asset at path from the index.
func (l *Library) Remove(path string) (Change, bool) {
	path = filepath.Clean(path)
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if m, ok := l.meshes[path]; ok {
		delete(l.meshes, path)
		return Change{Kind: ChangeRemoved, Type: AssetTypeMesh, Mesh: m}, true
	}
	if t, ok := l.textures[path]; ok {
		delete(l.textures, path)
		return Change{Kind: ChangeRemoved, Type: AssetTypeTexture, Texture: t}, true
	}
	return Change{}, false
}

// Watch starts reloading assets when their files change. Changes are
// delivered on the returned channel until Close is called.
func (l *Library) Watch() (<-chan Change, error) {
	if l.fsnotify != nil {
		return l.changes, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	l.fsnotify = w
	l.done = make(chan struct{})
	l.changes = make(chan Change, 16)

	if err := l.watchRecursive(l.dir); err != nil {
		w.Close()
		l.fsnotify = nil
		return nil, err
	}

	l.wg.Add(1)
	go l.start()
	core.LogInfo("watching %s for asset changes", l.dir)
	return l.changes, nil
}

func (l *Library) Close() error {
	if l.fsnotify == nil {
		return nil
	}
	close(l.done)
	l.wg.Wait()
	err := l.fsnotify.Close()
	l.fsnotify = nil
	return err
}

func (l *Library) start() {
	defer l.wg.Done()
	defer close(l.changes)
	for {
		select {
		case e, ok := <-l.fsnotify.Events:
			if !ok {
				return
			}
			l.handleEvent(e)

		case err, ok := <-l.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-l.done:
			return
		}
	}
}

func (l *Library) handleEvent(e fsnotify.Event) {
	if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := l.watchRecursive(e.Name); err != nil {
				core.LogError(err.Error())
			}
			// files written before the watch was added
			filepath.Walk(e.Name, func(path string, fi os.FileInfo, err error) error {
				if err == nil && !fi.IsDir() {
					l.reload(path)
				}
				return nil
			})
		}
		return
	}
	switch {
	case e.Has(fsnotify.Create) || e.Has(fsnotify.Write):
		l.reload(e.Name)
	case e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename):
		if change, ok := l.Remove(e.Name); ok {
			l.emit(change)
		}
	}
}

func (l *Library) reload(path string) {
	if determineAssetType(path) == AssetTypeNone {
		return
	}
	change, err := l.Load(path)
	if err != nil {
		// usually a partial write, the next write event retries
		core.LogWarn("reloading %s failed: %s", path, err.Error())
		return
	}
	l.emit(change)
}

func (l *Library) emit(change Change) {
	select {
	case l.changes <- change:
	case <-l.done:
	}
}

// watchRecursive adds the directory and all its sub-directories to the watch list.
func (l *Library) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if err := l.fsnotify.Add(walkPath); err != nil {
				return errors.Wrapf(err, "watching %s", walkPath)
			}
		}
		return nil
	})
}

func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func determineAssetType(path string) AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return AssetTypeMesh
	case ".png", ".jpg", ".jpeg":
		return AssetTypeTexture
	default:
		return AssetTypeNone
	}
}
