package bodies

import (
	"io"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LogConfig selects the verbosity and encoding of a logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // logfmt or json
}

// NewLogger returns a go-kit logger writing to w.
func NewLogger(w io.Writer, cfg LogConfig) kitlog.Logger {
	var klog kitlog.Logger
	if strings.EqualFold(cfg.Format, "json") {
		klog = kitlog.NewJSONLogger(kitlog.NewSyncWriter(w))
	} else {
		klog = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	}
	klog = level.NewFilter(klog, levelOption(cfg.Level))
	return kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)
}

// NopLogger returns a logger which drops everything.
func NopLogger() kitlog.Logger {
	return kitlog.NewNopLogger()
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
