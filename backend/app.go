package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/20after4/configdir"
	"github.com/dweymouth/mprisbar/backend/bar"
	"github.com/dweymouth/mprisbar/backend/ipc"
	"github.com/dweymouth/mprisbar/backend/module"
	"github.com/dweymouth/mprisbar/backend/mpris"
	"github.com/dweymouth/mprisbar/backend/util"
	"github.com/fsnotify/fsnotify"
)

const (
	configFile = "config.toml"

	// pending click commands beyond this are rejected
	commandQueueSize = 16

	// how often the bus is searched for a player when none is configured
	discoverInterval = 2 * time.Second
)

var (
	ErrAnotherInstance = errors.New("another instance is running")
	ErrNotRunning      = errors.New("no running instance")
)

// StartupOptions carry command line overrides of the config file.
type StartupOptions struct {
	ConfigPath  string
	Player      string
	Interval    float64
	Instance    string
	WatchConfig bool
	// PlainText forces output without click actions.
	PlainText bool
	Out       io.Writer
}

// App runs one bar module: it polls the player, writes a line to Out
// whenever the rendered output changes, and executes commands received
// over IPC.
type App struct {
	Config *Config

	log        *slog.Logger
	appName    string
	opts       StartupOptions
	configPath string
	factory    mpris.ObjectFactory
	bus        *mpris.SessionBus
	// players lists the MPRIS players on the bus; nil disables discovery
	players func() ([]string, error)
	now     func() time.Time

	// autoPlayer is the discovered player the module follows, if any
	autoPlayer   string
	lastDiscover time.Time

	module   *module.Module
	commands chan string
	reload   chan struct{}
	lastLine string
	emitted  bool

	ipcServer *http.Server
	watcher   *fsnotify.Watcher
	bgrndCtx  context.Context
	cancel    context.CancelFunc
}

// StartupApp reads the config and starts listening for commands. The IPC
// instance name must already be set with ipc.SetInstanceName.
func StartupApp(appName string, opts StartupOptions) (*App, error) {
	if _, err := ipc.Connect(); err == nil {
		return nil, ErrAnotherInstance
	}
	// nobody answered, so a leftover socket belongs to a crashed instance
	_ = ipc.DestroyConn()

	configPath := opts.ConfigPath
	if configPath == "" {
		confDir := configdir.LocalConfig(appName)
		configdir.MakePath(confDir)
		configPath = path.Join(confDir, configFile)
	}

	bus := &mpris.SessionBus{}
	a := newApp(slog.Default(), appName, opts, configPath, bus.Factory)
	a.bus = bus
	a.players = bus.Players

	a.log.Info("Starting", "app", appName, "config", configPath)
	a.readConfig()
	a.module = a.newModule()

	if listener, err := ipc.Listen(); err != nil {
		a.log.Error("Failed to listen for commands", "socket", ipc.SocketPath(), "error", err)
	} else {
		a.ipcServer = ipc.NewServer(a)
		go a.ipcServer.Serve(listener)
	}

	if opts.WatchConfig {
		if err := a.startConfigWatcher(a.bgrndCtx); err != nil {
			a.log.Error("Failed to watch config file", "error", err)
		}
	}
	return a, nil
}

func newApp(log *slog.Logger, appName string, opts StartupOptions, configPath string, factory mpris.ObjectFactory) *App {
	a := &App{
		log:        log,
		appName:    appName,
		opts:       opts,
		configPath: configPath,
		factory:    factory,
		commands:   make(chan string, commandQueueSize),
		reload:     make(chan struct{}, 1),
		now:        time.Now,
	}
	if a.opts.Out == nil {
		a.opts.Out = os.Stdout
	}
	a.bgrndCtx, a.cancel = context.WithCancel(context.Background())
	return a
}

// Run polls the module until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.refresh()
	for {
		if err := a.module.Idle(ctx); err != nil {
			return nil
		}
		a.handlePending()
		a.discoverPlayer()
		if a.module.HasEvent() && a.module.Update() {
			a.emit()
		}
	}
}

// Command queues a module command for the polling loop.
// It implements ipc.CommandHandler.
func (a *App) Command(cmd string) error {
	if !module.ValidCommand(cmd) {
		return fmt.Errorf("unknown command: %s", cmd)
	}
	select {
	case a.commands <- cmd:
		return nil
	default:
		return errors.New("too many pending commands")
	}
}

func (a *App) Shutdown() {
	a.cancel()
	if a.ipcServer != nil {
		a.ipcServer.Close()
		ipc.DestroyConn()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.module.Close()
	if a.bus != nil {
		a.bus.Close()
	}
}

func (a *App) handlePending() {
	for {
		select {
		case cmd := <-a.commands:
			if !a.module.Input(cmd) {
				a.log.Warn("Ignoring unknown command", "command", cmd)
			}
		case <-a.reload:
			a.log.Info("Config file changed, reloading", "config", a.configPath)
			a.readConfig()
			a.rebuildModule()
		default:
			return
		}
	}
}

// refresh populates a freshly built module and writes its output even
// if the player is offline.
func (a *App) refresh() {
	if a.module.HasEvent() {
		a.module.Update()
	}
	a.emitted = false
	a.emit()
}

func (a *App) emit() {
	b := &bar.PolybarBuilder{
		CommandPrefix: a.Config.Application.CommandPrefix,
		PlainText:     a.opts.PlainText || a.Config.Application.PlainText,
	}
	a.module.Render(b)
	line := b.String()
	if a.emitted && line == a.lastLine {
		return
	}
	a.lastLine, a.emitted = line, true
	if _, err := fmt.Fprintln(a.opts.Out, line); err != nil {
		a.log.Error("Failed to write output", "error", err)
	}
}

func (a *App) rebuildModule() {
	old := a.module
	a.module = a.newModule()
	old.Close()
	a.refresh()
}

// newModule builds the module for the configured player, or for the first
// player on the bus if none is configured.
func (a *App) newModule() *module.Module {
	cfg := a.Config.Module
	a.autoPlayer = ""
	if cfg.Player == "" {
		a.lastDiscover = a.now()
		cfg.Player = a.firstPlayer()
		a.autoPlayer = cfg.Player
		if cfg.Player != "" {
			a.log.Info("No player configured, using first found", "player", cfg.Player)
		}
	}
	return module.New(a.log, cfg, a.factory)
}

// discoverPlayer switches to another player on the bus when no player is
// configured and the followed one is missing, e.g. when the bar started
// before any player.
func (a *App) discoverPlayer() {
	if a.Config.Module.Player != "" || a.players == nil {
		return
	}
	if a.now().Sub(a.lastDiscover) < discoverInterval {
		return
	}
	a.lastDiscover = a.now()
	if a.autoPlayer != "" && a.module.Connected() {
		return
	}
	if p := a.firstPlayer(); p != "" && p != a.autoPlayer {
		a.rebuildModule()
	}
}

func (a *App) firstPlayer() string {
	if a.players == nil {
		return ""
	}
	players, err := a.players()
	if err != nil {
		a.log.Error("Failed to list MPRIS players", "error", err)
		return ""
	}
	if len(players) == 0 {
		return ""
	}
	return players[0]
}

func (a *App) readConfig() {
	var cfgExists bool
	if _, err := os.Stat(a.configPath); err == nil {
		cfgExists = true
	}
	cfg, err := ReadConfigFile(a.configPath, a.appName)
	if err != nil {
		cfg = DefaultConfig(a.appName)
		if cfgExists {
			a.log.Error("Error reading config file", "error", err)
			backupCfgName := fmt.Sprintf("%s.bak", filepath.Base(a.configPath))
			a.log.Warn("Config file may be malformed, copying", "backup", backupCfgName)
			_ = util.CopyFile(a.configPath, path.Join(filepath.Dir(a.configPath), backupCfgName))
		} else if err := cfg.WriteConfigFile(a.configPath); err != nil {
			a.log.Warn("Failed to write default config file", "error", err)
		}
	}
	a.applyOverrides(cfg)
	a.Config = cfg
}

func (a *App) applyOverrides(cfg *Config) {
	if a.opts.Player != "" {
		cfg.Module.Player = a.opts.Player
	}
	if a.opts.Interval > 0 {
		cfg.Module.Interval = a.opts.Interval
	}
	if a.opts.Instance != "" && cfg.Application.CommandPrefix == DefaultConfig(a.appName).Application.CommandPrefix {
		cfg.Application.CommandPrefix = fmt.Sprintf("%s -instance %s -command ", a.appName, a.opts.Instance)
	}
}

// startConfigWatcher watches the config dir rather than the file, since
// editors often replace the file instead of writing to it.
func (a *App) startConfigWatcher(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(a.configPath)); err != nil {
		w.Close()
		return err
	}
	a.watcher = w
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(a.configPath) ||
					ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case a.reload <- struct{}{}:
				default: // reload already pending
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				a.log.Warn("Config watcher error", "error", err)
			}
		}
	}()
	return nil
}
