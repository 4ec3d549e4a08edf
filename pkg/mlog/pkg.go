// Package mlog configures the process-wide apex/log logger used by the
// morph daemons.
package mlog

import (
	"io"
	"os"

	"github.com/apex/log"
)

var handler = NewHandler(os.Stdout)

// Setup installs the morph log handler on the apex/log root logger.
func Setup() {
	log.SetHandler(handler)
	log.SetLevel(log.InfoLevel)
}

func SetOutput(w io.WriteCloser) {
	handler.SetOutput(w)
}

func SetLevel(level log.Level) {
	log.SetLevel(level)
}

func SetLevelFromString(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	return nil
}
