// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies level and format to the standard logrus logger. Unknown
// levels fall back to info; format is "json" or anything else for text.
func Setup(level, format string, out io.Writer) {
	if out != nil {
		log.SetOutput(out)
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
