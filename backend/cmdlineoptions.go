package backend

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/dweymouth/mprisbar/backend/module"
)

var (
	SeekByCLIArg int = 0

	FlagConfig      = flag.String("config", "", "path of the config file (default: config.toml in the user config dir)")
	FlagPlayer      = flag.String("player", "", "MPRIS player to control, overrides the config file")
	FlagInterval    = flag.Float64("interval", 0, "seconds between elapsed time refreshes, overrides the config file")
	FlagInstance    = flag.String("instance", "", "name of this bar instance, for running several bars at once")
	FlagReload      = flag.Bool("reload", false, "rebuild the module when the config file changes")
	FlagListPlayers = flag.Bool("list-players", false, "print the MPRIS players on the session bus and exit")

	FlagPlay      = flag.Bool("play", false, "unpause or begin playback")
	FlagPause     = flag.Bool("pause", false, "pause playback")
	FlagPlayPause = flag.Bool("play-pause", false, "toggle play/pause state")
	FlagStop      = flag.Bool("stop", false, "stop playback")
	FlagPrevious  = flag.Bool("previous", false, "go to the previous track")
	FlagNext      = flag.Bool("next", false, "go to the next track")
	FlagShuffle   = flag.Bool("shuffle", false, "toggle shuffle")
	FlagLoop      = flag.Bool("loop", false, "advance the loop mode (None, Track, Playlist)")
	FlagCommand   = flag.String("command", "", "send a module command such as mprisplay or mprisseek+5")

	FlagVersion = flag.Bool("version", false, "print app version and exit")
	FlagHelp    = flag.Bool("help", false, "print command line options and exit")
)

func init() {
	flag.Func("seek-by", "seeks back or forward by the given number of seconds (negative or positive)", func(s string) error {
		v, err := strconv.Atoi(s)
		SeekByCLIArg = v
		return err
	})
}

// CommandsFromFlags returns the module commands requested on the command
// line, in a fixed order.
func CommandsFromFlags() []string {
	var cmds []string
	add := func(set bool, cmd string) {
		if set {
			cmds = append(cmds, cmd)
		}
	}
	add(*FlagPlay, module.EventPlay)
	add(*FlagPause, module.EventPause)
	add(*FlagPlayPause, module.EventToggle)
	add(*FlagStop, module.EventStop)
	add(*FlagPrevious, module.EventPrev)
	add(*FlagNext, module.EventNext)
	add(*FlagShuffle, module.EventRandom)
	add(*FlagLoop, module.EventNextLoopMode)
	add(SeekByCLIArg != 0, fmt.Sprintf("%s%+d", module.EventSeek, SeekByCLIArg))
	add(*FlagCommand != "", *FlagCommand)
	return cmds
}
