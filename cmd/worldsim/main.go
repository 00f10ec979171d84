// Command worldsim runs the tile world in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jaxmatrix/game-experiments/config"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/input"
	"github.com/jaxmatrix/game-experiments/logging"
	"github.com/jaxmatrix/game-experiments/sim"
)

const (
	frameInterval = 16 * time.Millisecond
	rateStep      = 10.0
)

var errQuit = errors.New("quit")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "worldsim:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	logPath := flag.String("log", "worldsim.log", "log file; the terminal is taken by the display")
	seed := flag.Int64("seed", 0, "world seed, overriding the config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	zl, err := logging.New(cfg.Log.Level, cfg.Log.Format, *logPath)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	logger := logging.Wrap(zl)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	simCfg, err := sim.ConfigFrom(cfg)
	if err != nil {
		screen.Fini()
		return err
	}
	kb := input.NewKeyboard()
	factory := newCellFactory()
	engine, err := sim.New(simCfg, kb, factory, sim.WithLogger(logger))
	if err != nil {
		screen.Fini()
		return err
	}
	if err := engine.Start(cfg.World.Width, cfg.World.Height, cfg.World.CellSize, cfg.World.Gap); err != nil {
		screen.Fini()
		return err
	}

	h := &host{
		screen: screen,
		engine: engine,
		keys:   newKeyTracker(kb),
		cells:  factory,
		logger: logger,
		rates:  make(chan float64, 8),
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return h.pumpEvents(ctx) })
	g.Go(func() error {
		defer screen.Fini()
		return h.frameLoop(ctx)
	})

	err = g.Wait()
	if stopErr := engine.Stop(); stopErr != nil {
		logger.Error("stop simulation", "err", stopErr)
	}
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// host owns the terminal. Only frameLoop touches the engine; the event pump
// talks to it through the keyboard and the rate channel.
type host struct {
	screen tcell.Screen
	engine *sim.Engine
	keys   *keyTracker
	cells  *cellFactory
	logger ecs.Logger
	rates  chan float64
}

func (h *host) pumpEvents(ctx context.Context) error {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			// The screen was finalized.
			return nil
		}
		if err := h.handleEvent(ctx, ev, time.Now()); err != nil {
			return err
		}
	}
}

func (h *host) handleEvent(ctx context.Context, ev tcell.Event, now time.Time) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return errQuit
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return errQuit
			case '+', '=':
				return h.requestRate(ctx, rateStep)
			case '-', '_':
				return h.requestRate(ctx, -rateStep)
			}
		}
		if name, ok := keyName(ev); ok {
			h.keys.Press(name, now)
		}
	}
	return nil
}

func (h *host) requestRate(ctx context.Context, delta float64) error {
	select {
	case h.rates <- delta:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *host) frameLoop(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	h.render()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case delta := <-h.rates:
			if err := h.engine.SetLogicalRate(h.engine.Rate() + delta); err != nil {
				h.logger.Error("set logical rate", "err", err)
			}
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			h.keys.Expire(now)
			if _, err := h.engine.Frame(ctx, elapsed); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			h.render()
		}
	}
}

func (h *host) render() {
	h.screen.Clear()
	h.cells.Draw(h.screen)
	drawStatus(h.screen, h.engine)
	h.screen.Show()
}
