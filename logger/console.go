package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ansiReset = "\033[0m"
	ansiBlue  = "\033[34m"
)

var consoleLevels = map[string]struct{ tag, color string }{
	"trace": {"[TRC]", ""},
	"debug": {"[DBG]", "\033[36m"},
	"info":  {"[INF]", "\033[32m"},
	"warn":  {"[WRN]", "\033[33m"},
	"error": {"[ERR]", "\033[31m"},
	"fatal": {"[FTL]", "\033[35m"},
}

// consoleWriter renders lines as "15:04:05 [OPT][INF] message key:value".
// The service prefix is the upper-cased first three letters of the name.
func consoleWriter(out io.Writer, serviceName string, noColor bool) zerolog.ConsoleWriter {
	paint := func(s, color string) string {
		if noColor || color == "" {
			return s
		}
		return color + s + ansiReset
	}

	prefix := ""
	if len(serviceName) >= 3 && serviceName != "default" {
		prefix = paint("["+strings.ToUpper(serviceName[:3])+"]", ansiBlue)
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToLower(fmt.Sprint(i))
			style, ok := consoleLevels[lvl]
			if !ok {
				style.tag = "[" + strings.ToUpper(lvl) + "]"
			}
			return prefix + paint(style.tag, style.color)
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
