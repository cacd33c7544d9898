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

	"github.com/csmith/envflag/v2"
	"github.com/csmith/slogflags"
	"github.com/dweymouth/mprisbar/backend"
	"github.com/dweymouth/mprisbar/backend/ipc"
	"github.com/dweymouth/mprisbar/backend/mpris"
	"github.com/dweymouth/mprisbar/res"
	"golang.org/x/term"
)

func main() {
	envflag.Parse()
	_ = slogflags.Logger(slogflags.WithSetDefault(true))

	if *backend.FlagVersion {
		fmt.Println(res.AppVersion)
		return
	}
	if *backend.FlagHelp {
		flag.Usage()
		return
	}
	if *backend.FlagListPlayers {
		os.Exit(listPlayers())
	}
	ipc.SetInstanceName(*backend.FlagInstance)
	if cmds := backend.CommandsFromFlags(); len(cmds) > 0 {
		os.Exit(sendCommands(cmds))
	}

	myApp, err := backend.StartupApp(res.AppName, backend.StartupOptions{
		ConfigPath:  *backend.FlagConfig,
		Player:      *backend.FlagPlayer,
		Interval:    *backend.FlagInterval,
		Instance:    *backend.FlagInstance,
		WatchConfig: *backend.FlagReload,
		PlainText:   term.IsTerminal(int(os.Stdout.Fd())),
	})
	if err != nil {
		slog.Error("Fatal startup error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := myApp.Run(ctx); err != nil {
		slog.Error("Module stopped", "error", err)
	}

	slog.Info("Running shutdown tasks...")
	myApp.Shutdown()
}

// sendCommands forwards cmds to the running instance, as bound to
// polybar click actions.
func sendCommands(cmds []string) int {
	cli, err := ipc.Connect()
	if err != nil {
		slog.Error("Failed to reach running instance", "error", errors.Join(backend.ErrNotRunning, err))
		return 1
	}
	for _, cmd := range cmds {
		if err := cli.Command(cmd); err != nil {
			slog.Error("Command failed", "command", cmd, "error", err)
			return 1
		}
	}
	return 0
}

func listPlayers() int {
	bus := &mpris.SessionBus{}
	defer bus.Close()
	players, err := bus.Players()
	if err != nil {
		slog.Error("Failed to list MPRIS players", "error", err)
		return 1
	}
	for _, p := range players {
		fmt.Println(p)
	}
	return 0
}
