// Package log is the application's logging facade over logrus.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/squidlr/squidlr/filesystem"
	"github.com/squidlr/squidlr/key"
	"github.com/squidlr/squidlr/where"
)

// Fields is an alias so callers don't need to import logrus.
type Fields = logrus.Fields

// Setup configures output, format and level from the configuration.
// With logs.write disabled entries go to stderr.
func Setup() error {
	out, err := output()
	if err != nil {
		return err
	}
	logrus.SetOutput(out)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

func output() (io.Writer, error) {
	if !viper.GetBool(key.LogsWrite) {
		return os.Stderr, nil
	}

	dir := where.Logs()
	if dir == "" {
		return nil, errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// WithField starts an entry carrying a single key.
func WithField(key string, value interface{}) *logrus.Entry {
	return logrus.WithField(key, value)
}

// WithFields starts an entry carrying structured context.
func WithFields(fields Fields) *logrus.Entry {
	return logrus.WithFields(fields)
}

// WithError starts an entry carrying err.
func WithError(err error) *logrus.Entry {
	return logrus.WithError(err)
}

func Error(args ...interface{}) {
	logrus.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

func Warn(args ...interface{}) {
	logrus.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

func Info(args ...interface{}) {
	logrus.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

func Debug(args ...interface{}) {
	logrus.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}
