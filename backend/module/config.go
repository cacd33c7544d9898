package module

import "github.com/dweymouth/mprisbar/backend/bar"

type Config struct {
	// Player is the bus name suffix after org.mpris.MediaPlayer2.
	// If empty, the first player on the bus is used.
	Player string
	// Interval is the minimum number of seconds between refreshes of the
	// elapsed time and progress bar.
	Interval float64

	FormatOnline  string
	FormatOffline string

	LabelSong    string
	LabelTime    string
	LabelOffline string
	// LabelMaxLen truncates the song label; 0 disables truncation.
	LabelMaxLen int

	Icons       IconConfig
	ProgressBar bar.ProgressBar
}

type IconConfig struct {
	Play         string
	Pause        string
	Stop         string
	Prev         string
	Next         string
	SeekB        string
	SeekF        string
	Random       string
	NoRandom     string
	LoopNone     string
	LoopTrack    string
	LoopPlaylist string
}

func DefaultConfig() Config {
	return Config{
		Interval:      1.0,
		FormatOnline:  "<icon-prev> <toggle> <icon-next> <label-song> <label-time>",
		FormatOffline: "<label-offline>",
		LabelSong:     "%artist% - %title%",
		LabelTime:     "%elapsed% / %total%",
		LabelOffline:  "no player",
		Icons: IconConfig{
			Play:         "⏵",
			Pause:        "⏸",
			Stop:         "⏹",
			Prev:         "⏮",
			Next:         "⏭",
			SeekB:        "⏪",
			SeekF:        "⏩",
			Random:       "🔀",
			NoRandom:     "➡",
			LoopNone:     "➡",
			LoopTrack:    "🔂",
			LoopPlaylist: "🔁",
		},
		ProgressBar: bar.ProgressBar{
			Width:     10,
			Fill:      "─",
			Indicator: "|",
			Empty:     "─",
		},
	}
}
