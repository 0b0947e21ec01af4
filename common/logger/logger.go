package logger

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// New builds the process logger. Entries go to stdout and are appended to
// the file at path. The returned closer releases the file.
func New(level string, path string) (*log.Logger, io.Closer, error) {
	l, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New()
	logger.SetLevel(l)
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return logger, f, nil
}

// Component returns an entry tagged with the component name.
func Component(logger log.FieldLogger, name string) *log.Entry {
	return logger.WithField("component", name)
}
