package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// ComponentKey is the field naming the subsystem that emitted an entry.
const ComponentKey = "component"

// PrettyFormatter renders entries as short colored lines for a terminal.
// The component field, when present, is printed as a prefix.
type PrettyFormatter struct {
	// DisableColors strips ANSI codes, e.g. when output is not a TTY.
	DisableColors bool
}

// Format renders a logrus entry as a single human-readable line.
func (f *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(f.paint(colorGray, entry.Time.Format("15:04:05")))
	b.WriteByte(' ')
	b.WriteString(f.paint(levelColor(entry.Level), levelLabel(entry.Level)))
	b.WriteByte(' ')

	if component, ok := entry.Data[ComponentKey]; ok {
		b.WriteString(f.paint(colorCyan, fmt.Sprintf("[%v] ", component)))
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == ComponentKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(f.paint(colorCyan, k))
		fmt.Fprintf(&b, "=%v", entry.Data[k])
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func (f *PrettyFormatter) paint(color string, s string) string {
	if f.DisableColors {
		return s
	}
	return color + s + colorReset
}

func levelLabel(level logrus.Level) string {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return "FTL"
	case logrus.ErrorLevel:
		return "ERR"
	case logrus.WarnLevel:
		return "WRN"
	case logrus.InfoLevel:
		return "INF"
	default:
		return "DBG"
	}
}

func levelColor(level logrus.Level) string {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return colorRed
	case logrus.WarnLevel:
		return colorYellow
	case logrus.InfoLevel:
		return colorGreen
	default:
		return colorGray
	}
}

// NewLogger creates a configured logrus logger.
func NewLogger(level string, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	setFormatter(logger, format)
	setLevel(logger, level)
	return logger
}

// Configure sets output, format, and level on an existing logger.
func Configure(logger *logrus.Logger, out io.Writer, level string, format string) {
	if out != nil {
		logger.SetOutput(out)
	}
	setFormatter(logger, format)
	setLevel(logger, level)
}

// Component returns an entry tagged with the given subsystem name.
func Component(name string) *logrus.Entry {
	return logrus.WithField(ComponentKey, name)
}

func setFormatter(logger *logrus.Logger, format string) {
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logger.SetFormatter(&PrettyFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

func setLevel(logger *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
