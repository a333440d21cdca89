package level

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"github.com/lafriks/go-tiled"
	"github.com/milk9111/autogamer/physics"
)

// Flip flags Tiled stores in the high bits of object gids.
const (
	flipHorizontalFlag = 0x80000000
	flipVerticalFlag   = 0x40000000
	flipDiagonalFlag   = 0x20000000
	flipFlags          = flipHorizontalFlag | flipVerticalFlag | flipDiagonalFlag
)

// tileInfo is everything the loader needs about one tileset tile.
type tileInfo struct {
	gid      uint32
	image    image.Image
	width    float64
	height   float64
	tileType string
	props    tiled.Properties

	shape    physics.Shape
	offset   physics.Vec2
	hasShape bool
}

type tileKey struct {
	tileset *tiled.Tileset
	id      uint32
}

// tileCatalog resolves tiles lazily and shares decoded images, so tiles
// from the same sheet reuse one sub-image each.
type tileCatalog struct {
	fsys   fs.FS
	images map[string]image.Image
	tiles  map[tileKey]*tileInfo
}

func newTileCatalog(fsys fs.FS) *tileCatalog {
	return &tileCatalog{
		fsys:   fsys,
		images: make(map[string]image.Image),
		tiles:  make(map[tileKey]*tileInfo),
	}
}

func (c *tileCatalog) tile(ts *tiled.Tileset, id uint32) (*tileInfo, error) {
	if ts == nil {
		return nil, fmt.Errorf("level: tile %d has no tileset", id)
	}
	key := tileKey{tileset: ts, id: id}
	if info, ok := c.tiles[key]; ok {
		return info, nil
	}

	info := &tileInfo{
		gid:    ts.FirstGID + id,
		width:  float64(ts.TileWidth),
		height: float64(ts.TileHeight),
	}
	tt, err := ts.GetTilesetTile(id)
	if err != nil {
		tt = nil
	}

	switch {
	case ts.Image != nil && ts.Image.Source != "":
		sheet, err := c.image(ts.GetFileFullPath(ts.Image.Source))
		if err != nil {
			return nil, err
		}
		info.image = subImage(sheet, ts.GetTileRect(id))
	case tt != nil && tt.Image != nil && tt.Image.Source != "":
		img, err := c.image(ts.GetFileFullPath(tt.Image.Source))
		if err != nil {
			return nil, err
		}
		info.image = img
		b := img.Bounds()
		info.width, info.height = float64(b.Dx()), float64(b.Dy())
	}

	if tt != nil {
		info.tileType = tt.Type
		info.props = tt.Properties
		info.shape, info.offset, info.hasShape, err = collisionShape(info.gid, tt.ObjectGroups, info.height)
		if err != nil {
			return nil, err
		}
	}
	c.tiles[key] = info
	return info, nil
}

func (c *tileCatalog) image(path string) (image.Image, error) {
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	f, err := c.fsys.Open(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, ioError(path, err)
	}
	c.images[path] = img
	return img, nil
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r.Add(img.Bounds().Min))
	}
	return img
}

// tilesetFor finds the tileset owning gid, which must already have its
// flip flags cleared.
func tilesetFor(tilesets []*tiled.Tileset, gid uint32) (*tiled.Tileset, bool) {
	var best *tiled.Tileset
	for _, ts := range tilesets {
		if ts == nil || ts.FirstGID > gid {
			continue
		}
		if best == nil || ts.FirstGID > best.FirstGID {
			best = ts
		}
	}
	return best, best != nil
}
