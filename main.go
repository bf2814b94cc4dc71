// Demo host for the particle engine: an ebiten window that owns an engine
// instance, forwards clicks as bursts, and draws a small stats HUD. The
// engine itself never touches ebiten's loop; the host calls Tick from its
// own Update, the way an embedding UI would.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"github.com/pkg/profile"

	"github.com/vaibhavt896/flowsync-particles/internal/burstfeed"
	"github.com/vaibhavt896/flowsync-particles/internal/config"
	"github.com/vaibhavt896/flowsync-particles/internal/engine"
	"github.com/vaibhavt896/flowsync-particles/internal/render"
)

type game struct {
	eng    *engine.Engine
	canvas *render.Canvas
	opts   *config.Options

	feed *burstfeed.Server

	lastTick time.Time
	prevKey  map[ebiten.Key]bool
	lastErr  error
}

func newGame(opts *config.Options, feed *burstfeed.Server) (*game, error) {
	canvas, err := render.NewCanvas(config.WindowWidth, config.WindowHeight, opts.BlendMode)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(opts, canvas, nil)
	if err != nil {
		return nil, err
	}
	return &game{
		eng:      eng,
		canvas:   canvas,
		opts:     opts,
		feed:     feed,
		lastTick: time.Now(),
		prevKey:  map[ebiten.Key]bool{},
	}, nil
}

func (g *game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeyO) {
		if err := g.openConfigDialog(); err != nil {
			g.lastErr = err
		}
	}

	// Click anywhere for a burst.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.eng.CreateBurst(float64(mx), float64(my), 10)
	}

	// Remote burst events, drained on the game loop so the engine only
	// ever sees calls from this goroutine.
	if g.feed != nil {
	drain:
		for {
			select {
			case ev := <-g.feed.Events():
				g.eng.CreateBurst(ev.X, ev.Y, ev.Intensity)
			default:
				break drain
			}
		}
	}

	now := time.Now()
	g.eng.Tick(float64(now.Sub(g.lastTick)) / float64(time.Millisecond))
	g.lastTick = now

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.canvas.Present(screen)

	st := g.eng.Stats()
	status := fmt.Sprintf("fps %d | active %d | pooled %d | frame %.1fms | click: burst, O: open config, Esc/Q: quit",
		st.FPS, st.Active, st.Pooled, st.AvgFrameMS)
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// openConfigDialog picks a JSON options document and swaps in a fresh
// engine. The old engine is destroyed first; Stopped is terminal, so a
// config change always means a new instance.
func (g *game) openConfigDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Particle Config"),
		zenity.FileFilters{{
			Name:     "JSON",
			Patterns: []string{"*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	opts, err := config.Load(filename)
	if err != nil {
		return err
	}

	g.eng.Destroy()
	disposeSurface(g.canvas)
	fresh, err := newGame(opts, g.feed)
	if err != nil {
		return err
	}
	g.eng = fresh.eng
	g.canvas = fresh.canvas
	g.opts = opts
	g.lastErr = nil
	log.Printf("loaded config %s", filename)
	return nil
}

// disposeSurface frees any GPU resources a surface holds. The engine never
// owns its surface lifecycle, so releasing a replaced canvas is the host's
// job.
func disposeSurface(s render.Surface) {
	if d, ok := s.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}

func main() {
	configPath := flag.String("config", "", "JSON particle config file (defaults apply when empty)")
	listenAddr := flag.String("listen", "", "serve a websocket burst feed on this address (e.g. :8087)")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode %q", *profileMode)
	}

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalln(err)
		}
		opts = loaded
	}

	var feed *burstfeed.Server
	if *listenAddr != "" {
		feed = burstfeed.NewServer(*listenAddr)
		go func() {
			log.Printf("burst feed listening on %s", *listenAddr)
			if err := feed.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Println(err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = feed.Shutdown(ctx)
		}()
	}

	g, err := newGame(opts, feed)
	if err != nil {
		log.Fatalln(err)
	}
	defer g.eng.Destroy()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("FlowSync Particles - click to burst")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalln(err)
	}
}
