package level

import (
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/autogamer/config"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/ecs/resource"
	"github.com/milk9111/autogamer/ecs/system"
	"github.com/milk9111/autogamer/input"
	"github.com/milk9111/autogamer/physics"
	"golang.org/x/image/colornames"
)

// Level owns one world and the systems that run it.
type Level struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	events    *input.EventStream
	physics   *system.PhysicsSystem
	keyboard  *system.KeyboardSystem
	viewports *system.ViewportSystem
	renderer  *system.RenderSystem

	// camera is what Draw shows. The systems move the Viewport resource
	// and the camera follows it only when they actually changed it, so a
	// debug pan sticks until the target moves.
	camera  resource.Viewport
	panStep float64

	background color.Color
	back       []layerImage
	front      []layerImage
	textures   map[image.Image]*ebiten.Image

	tileWidth  int
	tileHeight int
	mapWidth   float64
	mapHeight  float64
	start      physics.Vec2
	hasStart   bool
	loaded     bool
}

func New(cfg config.Config) (*Level, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bindings, err := keyBindings(cfg.Controls)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	events := input.NewEventStream()
	viewport := resource.NewViewport(cfg.Viewport.Width, cfg.Viewport.Height)
	ecs.SetResource(w, events)
	ecs.SetResource(w, viewport)
	ecs.SetResource(w, resource.NewCollisionsMap())

	engine := physics.NewEngine()
	l := &Level{
		world:      w,
		events:     events,
		physics:    system.NewPhysicsSystem(engine, 1/float64(cfg.Simulation.TPS)),
		keyboard:   system.NewKeyboardSystem(bindings),
		viewports:  system.NewViewportSystem(cfg.Viewport.SnapDistance, cfg.Viewport.TweenFrames),
		renderer:   system.NewRenderSystem(),
		camera:     *viewport,
		panStep:    cfg.Debug.PanStep,
		background: color.Black,
		textures:   make(map[image.Image]*ebiten.Image),
		tileWidth:  1,
		tileHeight: 1,
	}
	l.physics.SetGravity(physics.Vec2{X: cfg.Simulation.Gravity.X, Y: cfg.Simulation.Gravity.Y})

	l.scheduler = ecs.NewScheduler(l.keyboard, l.physics)
	l.scheduler.AddParallel(system.NewCollisionDetector(engine), l.viewports)
	l.scheduler.Add(system.NewCurrencySystem())
	l.scheduler.Setup(w)
	return l, nil
}

func keyBindings(c config.ControlsConfig) (system.KeyBindings, error) {
	left, right, jump, err := c.Keys()
	if err != nil {
		return system.KeyBindings{}, err
	}
	return system.KeyBindings{Left: left, Right: right, Jump: jump}, nil
}

func (l *Level) World() *ecs.World { return l.world }

func (l *Level) Engine() *physics.Engine { return l.physics.Engine() }

// Viewport is the area of the world Draw shows.
func (l *Level) Viewport() resource.Viewport { return l.camera }

// LevelStart is the `level_start` point of the loaded map, if it had one.
func (l *Level) LevelStart() (physics.Vec2, bool) { return l.start, l.hasStart }

func (l *Level) TileSize() (int, int) { return l.tileWidth, l.tileHeight }

// Bounds is the map size in world units.
func (l *Level) Bounds() (float64, float64) { return l.mapWidth, l.mapHeight }

func (l *Level) Loaded() bool { return l.loaded }

// AddPlayer spawns a keyboard-driven character at the level start.
func (l *Level) AddPlayer(p config.PlayerConfig) ecs.Entity {
	w := l.world
	e := ecs.CreateEntity(w)

	pos := component.Position{X: l.start.X, Y: l.start.Y}
	body := component.NewPhysicsBody()
	collider := component.NewPhysicsCollider(physics.NewRect(p.Size.X, p.Size.Y), physics.GroupPlayer)
	collider.Offset = physics.Vec2{X: p.Size.X / 2, Y: p.Size.Y / 2}
	controls := playerControls(p)
	health := component.Health{Current: p.Health, Max: p.Health}
	sprite := component.Sprite{
		Source:    placeholder(int(p.Size.X), int(p.Size.Y), colornames.Orange),
		Width:     p.Size.X,
		Height:    p.Size.Y,
		DrawOrder: component.DrawOrderCharacter,
	}

	for _, err := range []error{
		ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{}),
		ecs.Add(w, e, component.PositionComponent.Kind(), &pos),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body),
		ecs.Add(w, e, component.PhysicsColliderComponent.Kind(), &collider),
		ecs.Add(w, e, component.PlatformerControlsComponent.Kind(), &controls),
		ecs.Add(w, e, component.HealthComponent.Kind(), &health),
		ecs.Add(w, e, component.WalletComponent.Kind(), &component.Wallet{}),
		ecs.Add(w, e, component.ViewportTargetComponent.Kind(), &component.ViewportTarget{}),
		ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite),
	} {
		if err != nil {
			panic("level: add player: " + err.Error())
		}
	}
	log.Printf("Level: player %v spawned at (%.0f, %.0f)", e, pos.X, pos.Y)
	return e
}

func playerControls(p config.PlayerConfig) component.PlatformerControls {
	return component.PlatformerControls{
		LeftVelocity:  p.LeftVelocity,
		RightVelocity: p.RightVelocity,
		JumpVelocity:  p.JumpVelocity,
		AirControl:    p.AirControl,
	}
}

func placeholder(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// Apply pushes live-tunable settings into a running level: gravity, key
// bindings and the controls of every player.
func (l *Level) Apply(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	bindings, err := keyBindings(cfg.Controls)
	if err != nil {
		return err
	}
	l.physics.SetGravity(physics.Vec2{X: cfg.Simulation.Gravity.X, Y: cfg.Simulation.Gravity.Y})
	l.keyboard.SetBindings(bindings)
	l.viewports.SnapDistance = cfg.Viewport.SnapDistance
	l.viewports.TweenFrames = cfg.Viewport.TweenFrames
	l.panStep = cfg.Debug.PanStep

	controls := playerControls(cfg.Player)
	ecs.ForEach2(l.world, component.PlayerComponent.Kind(), component.PlatformerControlsComponent.Kind(), func(e ecs.Entity, _ *component.Player, c *component.PlatformerControls) {
		*c = controls
	})
	return nil
}

// Update runs one frame and reports whether the game should keep going.
func (l *Level) Update(source input.Source) bool {
	l.events.Refill(source)
	quit := false
	l.events.Each(func(ev *input.Event) {
		if ev.Kind == input.EventQuit {
			quit = true
		}
	})

	// Debug controls see events first and may hide them from the systems.
	l.handleDebugControls()

	viewport := ecs.MustResource[resource.Viewport](l.world)
	prev := *viewport
	l.scheduler.Update(l.world)
	ecs.Maintain(l.world)
	if *viewport != prev {
		l.camera = *viewport
	}
	return !quit
}

func (l *Level) handleDebugControls() {
	l.events.Each(func(ev *input.Event) {
		if ev.Kind != input.EventKeyDown || !ev.Modifiers.Ctrl() {
			return
		}
		switch ev.Key {
		case input.KeyUp:
			l.camera.Y += l.panStep
		case input.KeyDown:
			l.camera.Y -= l.panStep
		case input.KeyLeft:
			l.camera.X -= l.panStep
		case input.KeyRight:
			l.camera.X += l.panStep
		default:
			return
		}
		ev.StopPropagation()
	})
}

// Draw clears to the map background and draws the back layers, the
// sprites and then the front layers through the camera.
func (l *Level) Draw(screen *ebiten.Image) {
	screen.Fill(l.background)
	l.drawLayers(screen, l.back)
	l.renderer.Draw(l.world, screen, l.camera)
	l.drawLayers(screen, l.front)
}

func (l *Level) drawLayers(screen *ebiten.Image, layers []layerImage) {
	if len(layers) == 0 {
		return
	}
	b := screen.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	sx, sy := l.camera.Scale(sw, sh)
	// Layer images are in map pixels with y down from the map's top edge.
	x, y := l.camera.ToScreen(physics.Vec2{X: 0, Y: l.mapHeight}, sw, sh)
	for _, layer := range layers {
		if layer.image == nil {
			continue
		}
		tex, ok := l.textures[layer.image]
		if !ok {
			tex = ebiten.NewImageFromImage(layer.image)
			l.textures[layer.image] = tex
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(x, y)
		screen.DrawImage(tex, op)
	}
}
