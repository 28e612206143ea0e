package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme
type palette struct {
	fg       string
	time     string
	name     string
	key      string
	value    string
	yellow   string
	red      string
	redBg    string
	yellowBg string
}

var themes = map[string]palette{
	// Gruvbox Dark (warm, muted)
	"gruvbox": {
		fg:       "\x1b[38;5;223m",
		time:     "\x1b[38;5;108m",
		name:     "\x1b[38;5;208m",
		key:      "\x1b[38;5;109m",
		value:    "\x1b[38;5;175m",
		yellow:   "\x1b[38;5;214m",
		red:      "\x1b[38;5;167m",
		redBg:    "\x1b[48;5;88m",
		yellowBg: "\x1b[48;5;58m",
	},
	// Everforest Dark (forest greens)
	"everforest": {
		fg:       "\x1b[38;5;223m",
		time:     "\x1b[38;5;107m",
		name:     "\x1b[38;5;108m",
		key:      "\x1b[38;5;65m",
		value:    "\x1b[38;5;109m",
		yellow:   "\x1b[38;5;179m",
		red:      "\x1b[38;5;167m",
		redBg:    "\x1b[48;5;52m",
		yellowBg: "\x1b[48;5;58m",
	},
}

// Current active theme (set by Initialize from config)
var currentTheme = "everforest"

// HasTheme reports whether theme names a known palette
func HasTheme(theme string) bool {
	_, ok := themes[theme]
	return ok
}

// SetTheme configures the color scheme for log output.
// Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  WARN  crepr  skipped file  file=models.py error=syntax error"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level badge only for WARN and above
	if badge := levelBadge(ent.Level, c); badge != "" {
		final.AppendString("  ")
		final.AppendString(badge)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.name)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(fields, c))
	}

	final.AppendString("\n")
	return final, nil
}

// levelBadge returns bold + colored + background for WARN/ERROR
func levelBadge(level zapcore.Level, c palette) string {
	switch {
	case level == zapcore.WarnLevel:
		return colorBold + c.yellowBg + c.yellow + "WARN" + colorReset
	case level >= zapcore.ErrorLevel:
		return colorBold + c.redBg + c.red + level.CapitalString() + colorReset
	case level == zapcore.DebugLevel:
		return c.key + "DEBUG" + colorReset
	default:
		return ""
	}
}

// formatFields renders every field as key=value, sorted by key.
// No field is ever dropped.
func formatFields(fields []zapcore.Field, c palette) string {
	m := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(m)
	}

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, c.key+k+"="+colorReset+c.value+fmt.Sprintf("%v", m.Fields[k])+colorReset)
	}
	return strings.Join(parts, " ")
}
