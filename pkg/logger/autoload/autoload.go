// Package autoload initializes the global logger from LOG_* environment
// variables as a blank-import side effect.
package autoload

import (
	configx "github.com/autostream/leadgen-agent/pkg/config"
	logx "github.com/autostream/leadgen-agent/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
