// Package logx configures the process-wide zerolog logger.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the log format and verbosity. Fields map to LOG_* environment
// variables when loaded through pkg/config; JSON output at info level is the
// default, which suits piping the agent's output to a collector.
type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global zerolog logger. Calling it without arguments
// installs the defaults; pass a Config to turn on console formatting for
// local runs or debug-level logging.
func Init(opts ...Config) {
	var conf Config
	if len(opts) > 0 {
		conf = opts[0]
	}

	var out io.Writer = os.Stdout
	if conf.PrettyFormat {
		out = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger()
}
