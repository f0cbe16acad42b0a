package commands

import (
	"github.com/caarlos0/env/v11"

	"github.com/thoreinstein/minesweeper/internal/errors"
)

// environment holds the MINESWEEPER_* variables read at startup that are not
// settings keys.
type environment struct {
	Debug string `env:"MINESWEEPER_DEBUG"`
}

func parseEnvironment() (environment, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return environment{}, errors.Wrap(err, "parse env")
	}
	return e, nil
}

// debugVerbosity maps MINESWEEPER_DEBUG to a -v count: 1 or true is debug,
// 2 is trace. Anything else leaves the default level.
func (e environment) debugVerbosity() int {
	switch e.Debug {
	case "1", "true":
		return 2
	case "2":
		return 3
	}
	return 0
}
