package level

import (
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lafriks/go-tiled"
	"github.com/lafriks/go-tiled/render"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/physics"
)

const levelStartName = "level_start"

// layerImage is a pre-rendered tile layer in map pixel space.
type layerImage struct {
	name  string
	image image.Image
}

// Load reads a Tiled map into the world. It may only succeed once per
// Level.
func (l *Level) Load(path string) error {
	if l.loaded {
		return &LoadError{Kind: MultipleLoads}
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)
	m, err := tiled.LoadFile(name, tiled.WithFileSystem(fsys))
	if err != nil {
		return ioError(path, err)
	}
	if err := l.loadMap(m, fsys); err != nil {
		return err
	}
	l.loaded = true
	log.Printf("Level: loaded %s (%dx%d tiles, %d entities)", path, m.Width, m.Height, len(ecs.Entities(l.world)))
	return nil
}

func (l *Level) loadMap(m *tiled.Map, fsys fs.FS) error {
	if m.Orientation != "" && m.Orientation != "orthogonal" {
		return unsupported("only maps with orthogonal orientation are supported, got %q", m.Orientation)
	}
	if len(m.ImageLayers) > 0 {
		log.Printf("Warning: Level: image layers are not supported yet and will be ignored")
	}
	if m.BackgroundColor != nil {
		l.background = m.BackgroundColor
	}
	l.tileWidth, l.tileHeight = m.TileWidth, m.TileHeight
	l.mapWidth = float64(m.Width * m.TileWidth)
	l.mapHeight = float64(m.Height * m.TileHeight)

	catalog := newTileCatalog(fsys)
	if err := l.loadLayers(m, fsys, catalog); err != nil {
		return err
	}
	if err := l.loadObjects(m, catalog); err != nil {
		return err
	}

	if l.hasStart {
		ecs.ForEach2(l.world, component.PlayerComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, _ *component.Player, _ *component.Position) {
			pos, _ := ecs.GetMut(l.world, e, component.PositionComponent.Kind())
			pos.Set(l.start)
		})
	}
	return nil
}

func (l *Level) loadLayers(m *tiled.Map, fsys fs.FS, catalog *tileCatalog) error {
	var renderer *render.Renderer
	foundMap := false
	for i, layer := range m.Layers {
		if layer == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(layer.Name), "map") {
			if foundMap {
				log.Printf("Warning: Level: only a single layer should be named `map` (ignoring layer %q)", layer.Name)
				continue
			}
			foundMap = true
			if err := l.loadMapLayer(m, layer, catalog); err != nil {
				return err
			}
			continue
		}

		if renderer == nil {
			r, err := render.NewRendererWithFileSystem(m, fsys)
			if err != nil {
				return ioError(layer.Name, err)
			}
			renderer = r
		}
		if err := renderer.RenderLayer(i); err != nil {
			log.Printf("Warning: Level: failed to render layer %q: %v", layer.Name, err)
			renderer.Clear()
			continue
		}
		img := layerImage{name: layer.Name, image: renderer.Result}
		renderer.Clear()
		if foundMap {
			l.front = append(l.front, img)
		} else {
			l.back = append(l.back, img)
		}
	}
	return nil
}

// loadMapLayer turns every tile of the `map` layer into an entity with a
// collider. Tiles without collision objects get a full-tile box.
func (l *Level) loadMapLayer(m *tiled.Map, layer *tiled.Layer, catalog *tileCatalog) error {
	for idx, lt := range layer.Tiles {
		if lt == nil || lt.IsNil() {
			continue
		}
		info, err := catalog.tile(lt.Tileset, lt.ID)
		if err != nil {
			return err
		}
		col, row := idx%m.Width, idx/m.Width
		pos := component.Position{
			X: float64(col * m.TileWidth),
			Y: l.mapHeight - float64((row+1)*m.TileHeight),
		}
		sprite := component.Sprite{
			Source:         info.image,
			Width:          info.width,
			Height:         info.height,
			FlipHorizontal: lt.HorizontalFlip,
			FlipVertical:   lt.VerticalFlip,
			FlipDiagonal:   lt.DiagonalFlip,
			Opacity:        float64(layer.Opacity),
			DrawOrder:      component.DrawOrderTile,
		}
		if _, err := l.spawnTile(pos, sprite, info, info.tileType, properties{info.props}); err != nil {
			return err
		}
	}
	return nil
}

func (l *Level) loadObjects(m *tiled.Map, catalog *tileCatalog) error {
	for _, group := range m.ObjectGroups {
		if group == nil {
			continue
		}
		for _, obj := range group.Objects {
			if obj == nil {
				continue
			}
			pos := component.Position{X: obj.X, Y: l.mapHeight - obj.Y}
			if obj.GID == 0 {
				l.applyObject(obj, pos)
				continue
			}

			flags := obj.GID & flipFlags
			gid := obj.GID &^ flipFlags
			ts, ok := tilesetFor(m.Tilesets, gid)
			if !ok {
				return ioError(group.Name, errUnknownGID(gid))
			}
			info, err := catalog.tile(ts, gid-ts.FirstGID)
			if err != nil {
				return err
			}

			width, height := info.width, info.height
			if obj.Width > 0 && obj.Height > 0 {
				width, height = obj.Width, obj.Height
			}
			sprite := component.Sprite{
				Source:         info.image,
				Width:          width,
				Height:         height,
				FlipHorizontal: flags&flipHorizontalFlag != 0,
				FlipVertical:   flags&flipVerticalFlag != 0,
				FlipDiagonal:   flags&flipDiagonalFlag != 0,
				Opacity:        float64(group.Opacity),
				DrawOrder:      component.DrawOrderObject,
			}

			// The object's type and properties override the tile's.
			tileType := objectType(obj)
			if tileType == "" {
				tileType = info.tileType
			}
			if _, err := l.spawnTile(pos, sprite, info, tileType, properties{obj.Properties, info.props}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Level) applyObject(obj *tiled.Object, pos component.Position) {
	if obj.Name != levelStartName && objectType(obj) != levelStartName {
		return
	}
	if !isPoint(obj) {
		log.Printf("Warning: Level: the `level_start` indicator should be a single point (ID = %d)", obj.ID)
		return
	}
	if l.hasStart {
		log.Printf("Warning: Level: ignoring duplicate `level_start` indicator (ID = %d)", obj.ID)
		return
	}
	l.start, l.hasStart = pos.Vec(), true
}

// spawnTile creates a positioned sprite with the tile's collider and its
// component templates.
func (l *Level) spawnTile(pos component.Position, sprite component.Sprite, info *tileInfo, tileType string, props properties) (ecs.Entity, error) {
	e := ecs.CreateEntity(l.world)
	collider := component.NewPhysicsCollider(physics.NewRect(sprite.Width, sprite.Height), physics.GroupGround)
	collider.Offset = physics.Vec2{X: sprite.Width / 2, Y: sprite.Height / 2}
	if info.hasShape {
		collider.Shape = info.shape
		collider.Offset = info.offset
	}
	if err := ecs.Add(l.world, e, component.PositionComponent.Kind(), &pos); err != nil {
		return e, err
	}
	if err := ecs.Add(l.world, e, component.SpriteComponent.Kind(), &sprite); err != nil {
		return e, err
	}
	if err := ecs.Add(l.world, e, component.PhysicsColliderComponent.Kind(), &collider); err != nil {
		return e, err
	}
	if err := applyTemplates(l.world, e, info.gid, tileType, props); err != nil {
		return e, templateError(err)
	}
	return e, nil
}

func objectType(obj *tiled.Object) string {
	if obj.Class != "" {
		return obj.Class
	}
	return obj.Type
}

func isPoint(obj *tiled.Object) bool {
	return obj.Width == 0 && obj.Height == 0 &&
		len(obj.Polygons) == 0 && len(obj.PolyLines) == 0 && len(obj.Ellipses) == 0
}

type errUnknownGID uint32

func (e errUnknownGID) Error() string {
	return "no tileset contains gid " + strconv.FormatUint(uint64(e), 10)
}
