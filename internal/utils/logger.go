package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// SetupLogger picks the apex/log handler and level for the process.
func SetupLogger(level, format string) {
	switch strings.ToLower(format) {
	case "json":
		log.SetHandler(json.New(os.Stdout))
	default:
		log.SetHandler(text.New(os.Stdout))
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func LogDebug(format string, v ...interface{}) {
	log.WithField("caller", caller(2)).Debugf(format, v...)
}

func LogInfo(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func LogError(format string, v ...interface{}) {
	log.WithField("caller", caller(2)).Errorf(format, v...)
}

func LogWarning(format string, v ...interface{}) {
	log.WithField("caller", caller(2)).Warnf(format, v...)
}

// WithFields is for call sites that carry session or agent context.
func WithFields(fields log.Fields) *log.Entry {
	return log.WithFields(fields)
}

func TimeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	LogDebug("%s took %s", name, elapsed)
}
