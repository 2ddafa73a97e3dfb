package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"golang.org/x/sync/errgroup"

	"deckfw/lib/config"
	"deckfw/lib/controller"
	"deckfw/lib/host"
	"deckfw/lib/status"
	"deckfw/lib/streamdeck"
)

// touchHold is how long an LCD tap holds its touchscreen button down.
const touchHold = 100 * time.Millisecond

func main() {
	configPath := flag.String("config", "deckfw.yaml", "configuration file")
	brightness := flag.Uint("brightness", 80, "key brightness in percent")
	displayKey := flag.Int("display-key", -1, "key showing MIDI activity on decks without an LCD")
	statusAddr := flag.String("status", "", "serve controller state over HTTP on this address")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	log := newLogger(*debug)
	err := run(log, *configPath, byte(min(*brightness, 100)), *displayKey, *statusAddr)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath string, brightness byte, displayKey int, statusAddr string) error {
	defer midi.CloseDriver()

	dev, err := streamdeck.Open(nil)
	if err != nil {
		return err
	}
	defer dev.Close()

	m := dev.Model()
	fw, _ := dev.FirmwareVersion()
	log.Info("connected", "product", dev.Product(), "model", m.Name, "serial", dev.SerialNumber(), "firmware", fw)
	dev.DisplayKey = displayKey
	if err := dev.Reset(); err != nil {
		return err
	}
	dev.SetBrightness(brightness)

	cfg, err := config.Load(configPath, func(l *config.Layout) {
		l.Buttons = m.Buttons()
		l.Analog = 0
		l.Touchscreen = m.TouchZones()
		l.Columns = 0
		l.LEDs = m.Keys
	})
	if err != nil {
		return err
	}

	h, err := host.Open(cfg, log)
	if err != nil {
		return err
	}
	defer h.Close()

	c := controller.New(cfg, controller.Deps{
		Out:      h.Out,
		LEDs:     dev,
		Panel:    dev,
		Notifier: h.Notifier,
		Logger:   log,
	})
	if err := h.Listen(c.HandleIncoming); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	touches := streamdeck.NewTouchHold(touchHold, c.Touch)
	defer touches.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := dev.Scan(touches.Tap)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		dev.ClearAllKeys()
		return dev.Close()
	})
	g.Go(func() error { return c.Run(ctx) })
	g.Go(func() error { return c.Sample(ctx, cfg.Scan.Period, dev) })
	if statusAddr != "" {
		g.Go(func() error { return status.Serve(ctx, statusAddr, c, log) })
	}
	return g.Wait()
}

func newLogger(debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(log)
	return log
}
