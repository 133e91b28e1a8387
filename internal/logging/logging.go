package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup points the global apex logger at w with the given level and
// format ("text" or "json").
func Setup(level, format string, w io.Writer) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", "text":
		log.SetHandler(text.New(w))
	case "json":
		log.SetHandler(json.New(w))
	default:
		return fmt.Errorf("log format %q: want text or json", format)
	}
	log.SetLevel(lvl)
	return nil
}
