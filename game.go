package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/autogamer/common"
	"github.com/milk9111/autogamer/config"
	"github.com/milk9111/autogamer/ecs"
	"github.com/milk9111/autogamer/ecs/component"
	"github.com/milk9111/autogamer/input"
	"github.com/milk9111/autogamer/level"
	"github.com/milk9111/autogamer/ui"
	"golang.org/x/image/font/basicfont"
)

type Game struct {
	cfg    config.Config
	level  *level.Level
	source *input.EbitenSource
	pacer  *common.Pacer
	last   time.Time
	frames int

	pause *ui.PauseMenu
	hud   ebtext.Face

	watcher    *config.Watcher
	scriptPath string
}

func NewGame(cfg config.Config, lvl *level.Level) *Game {
	return &Game{
		cfg:    cfg,
		level:  lvl,
		source: input.NewEbitenSource(),
		pacer:  common.NewPacer(cfg.Simulation.TPS),
		pause:  ui.NewPauseMenu(cfg.Window.Width, cfg.Window.Height),
		hud:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
}

// watch applies configs from w as they are saved. The setup script, if
// any, is re-run over every reloaded config.
func (g *Game) watch(w *config.Watcher, scriptPath string) {
	g.watcher = w
	g.scriptPath = scriptPath
}

// frame is the events polled for one tick, replayed to the level.
type frame []input.Event

func (f frame) Poll(emit func(input.Event)) {
	for _, ev := range f {
		emit(ev)
	}
}

func (g *Game) Update() error {
	now := time.Now()
	if g.last.IsZero() {
		g.last = now.Add(-g.pacer.Frame)
	}
	elapsed := now.Sub(g.last)
	g.last = now
	if !g.pacer.Advance(elapsed) {
		return nil
	}
	g.frames++
	g.applyReloads()

	var events frame
	g.source.Poll(func(ev input.Event) {
		events = append(events, ev)
	})
	for _, ev := range events {
		if ev.Kind == input.EventQuit {
			return ebiten.Termination
		}
		if ev.IsPress(input.KeyP) {
			g.pause.Toggle()
		}
	}

	if g.pause.Open() {
		g.pause.Update()
		if g.pause.QuitRequested() {
			return ebiten.Termination
		}
		return nil
	}
	if !g.level.Update(events) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-g.watcher.Configs:
			if !ok {
				g.watcher = nil
				return
			}
			if g.scriptPath != "" {
				cfg.Script = g.scriptPath
			}
			cfg, err := applyScript(cfg)
			if err == nil {
				err = g.level.Apply(cfg)
			}
			if err != nil {
				log.Printf("Warning: Game: ignoring reloaded config: %v", err)
				continue
			}
			g.cfg = cfg
			log.Printf("Game: applied reloaded config")
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Warning: Game: config watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.level.Draw(screen)
	if g.cfg.Debug.Overlay {
		g.drawOverlay(screen)
	}
	g.pause.Draw(screen)
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	lines := fmt.Sprintf("Frames: %d    FPS: %.2f    Skipped: %d", g.frames, ebiten.ActualFPS(), g.pacer.Skipped())
	w := g.level.World()
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, _ *component.Player, pos *component.Position) {
		wallet, _ := ecs.Get(w, e, component.WalletComponent.Kind())
		var balance uint32
		if wallet != nil {
			balance = wallet.Balance
		}
		lines += fmt.Sprintf("\n%v  pos (%.1f, %.1f)  coins %d", e, pos.X, pos.Y, balance)
	})
	vp := g.level.Viewport()
	lines += fmt.Sprintf("\nviewport (%.0f, %.0f) %.0fx%.0f", vp.X, vp.Y, vp.Width, vp.Height)

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(4, 4)
	op.LineSpacing = 14
	ebtext.Draw(screen, lines, g.hud, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
