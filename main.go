package main

import (
	"labor-odds/internal/cli"
	"labor-odds/internal/errors"
	"labor-odds/internal/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		entry := logger.Log.WithError(err)
		if hint := errors.FlattenHints(err); hint != "" {
			entry = entry.WithField("hint", hint)
		}
		entry.Fatal("labor-odds failed")
	}
}
