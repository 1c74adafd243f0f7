// Package logging builds the process logger and bridges the MongoDB driver's
// own log output into it.
package logging

import (
	"io"
	"strings"

	"github.com/bombsimon/logrusr/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// DriverOptions routes driver command and connection logs through logger.
// Commands are logged at debug level, so they only appear when the logger
// itself is at debug or trace.
func DriverOptions(logger *logrus.Logger, maxDocumentLength uint) *options.LoggerOptions {
	sink := logrusr.New(logger.WithField("component", "mongo-driver")).GetSink()
	return options.Logger().
		SetSink(sink).
		SetMaxDocumentLength(maxDocumentLength).
		SetComponentLevel(options.LogComponentCommand, options.LogLevelDebug).
		SetComponentLevel(options.LogComponentConnection, options.LogLevelInfo)
}
