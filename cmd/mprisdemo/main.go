// Command mprisdemo serves a fake MPRIS player on the session bus, for
// trying out a bar configuration without a real media player.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csmith/envflag/v2"
	"github.com/csmith/slogflags"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
)

var (
	name     = flag.String("name", "mprisdemo", "bus name suffix, the player registers as org.mpris.MediaPlayer2.<name>")
	autoplay = flag.Bool("autoplay", true, "start playing immediately")
)

func demoTracks() []track {
	return []track{
		newTrack("Clair de Lune", "Suite bergamasque", "Claude Debussy", 5*time.Minute+2*time.Second),
		newTrack("Gymnopédie No. 1", "Gymnopédies", "Erik Satie", 3*time.Minute+5*time.Second),
		newTrack("Spiegel im Spiegel", "Alina", "Arvo Pärt", 9*time.Minute+38*time.Second),
		newTrack("夜に駆ける", "THE BOOK", "YOASOBI", 4*time.Minute+21*time.Second),
	}
}

func main() {
	envflag.Parse()
	log := slogflags.Logger(slogflags.WithSetDefault(true))

	p := newDemoPlayer("mprisbar demo", demoTracks())
	s := server.NewServer(*name, p, p)
	p.evt = events.NewEventHandler(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		// exits early with err if unable to establish D-Bus connection
		listenErr <- s.Listen()
	}()
	log.Info("Serving demo player", "name", *name)

	if *autoplay {
		_ = p.Play()
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			s.Stop()
			return
		case err := <-listenErr:
			if err != nil {
				slog.Error("MPRIS server failed", "error", err)
				os.Exit(1)
			}
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}
