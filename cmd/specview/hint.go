package main

import (
	"context"
	"errors"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/assets"
	"github.com/alnah/go-specview/internal/config"
	"github.com/alnah/go-specview/internal/hints"
)

// hintFor returns a remedy to print after err, or "".
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, specview.ErrBrowserConnect):
		return hints.ForBrowserConnect(env.Getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, specview.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.EmbeddedStyles())
	case errors.Is(err, ErrListen):
		return hints.ForListen()
	case errors.Is(err, specview.ErrLineOutOfRange):
		return hints.ForLineOutOfRange()
	}
	return ""
}
