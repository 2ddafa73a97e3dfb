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

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"golang.org/x/sync/errgroup"

	"deckfw/lib/config"
	"deckfw/lib/controller"
	"deckfw/lib/host"
	"deckfw/lib/midiout"
	"deckfw/lib/status"
	"deckfw/lib/xtouch"
)

func main() {
	configPath := flag.String("config", "deckfw.yaml", "configuration file")
	surfacePort := flag.String("surface", "x-touch", "MIDI port name of the X-Touch")
	statusAddr := flag.String("status", "", "serve controller state over HTTP on this address")
	debug := flag.Bool("debug", false, "log debug messages, including every surface input")
	flag.Parse()

	log := newLogger(*debug)
	if err := run(log, *configPath, *surfacePort, *statusAddr); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath, surfacePort, statusAddr string) error {
	defer midi.CloseDriver()

	cfg, err := config.Load(configPath, func(l *config.Layout) {
		l.Buttons = xtouch.Buttons
		l.Analog = xtouch.Analog
		l.Touchscreen = xtouch.Touch
		l.Columns = 0
		if l.LEDs == 0 || l.LEDs > xtouch.LEDs {
			l.LEDs = xtouch.LEDs
		}
	})
	if err != nil {
		return err
	}

	inPort, err := midiout.FindIn(surfacePort)
	if err != nil {
		in, _ := midiout.PortNames()
		log.Error("surface input not found", "available", in)
		return err
	}
	outPort, err := midiout.FindOut(surfacePort)
	if err != nil {
		return err
	}
	surfaceOut, err := xtouch.NewOutput(outPort, xtouch.DeviceIDXTouch)
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
		LEDs:     surfaceOut,
		Panel:    surfaceOut,
		Notifier: h.Notifier,
		Logger:   log,
	})

	surface := xtouch.NewSurface()
	surface.OnAnalog = c.Analog
	surface.OnTouch = c.Touch
	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		if in, ok := surface.Handle(msg); ok {
			log.Debug("surface input", "input", in.String())
		} else {
			log.Debug("surface input ignored", "msg", msg.String())
		}
	})
	if err != nil {
		return fmt.Errorf("listen %s: %w", inPort, err)
	}
	defer stop()

	if err := h.Listen(c.HandleIncoming); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("running", "surface", inPort.String(), "preset", cfg.Presets[0].Name)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Run(ctx) })
	g.Go(func() error { return c.Sample(ctx, cfg.Scan.Period, surface) })
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
