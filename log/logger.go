package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"github.com/dominant-strategies/quai-evm/common/constants"
)

// Logger is the structured logger handed to every component.
type Logger = logrus.Logger

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields = logrus.Fields

const (
	// default log level
	defaultLogLevel = logrus.InfoLevel

	// default log directory
	logDir = "nodelogs"
	// default log file params
	defaultLogMaxSize    = 500 // maximum file size before rotation, in MB
	defaultLogMaxBackups = 3   // maximum number of old log files to keep
	defaultLogMaxAge     = 28  // maximum number of days to retain old log files
)

var (
	// Global is the logger used by the application when no component
	// specific logger was configured.
	Global *Logger

	// default logfile path
	defaultLogFilePath = filepath.Join(".", logDir, constants.LOG_FILE_NAME)
)

func init() {
	Global = createStandardLogger(defaultLogFilePath, defaultLogLevel.String(), true)
}

// SetGlobalLogger redirects the global logger to logFilename (plus stdout)
// and sets its level.
func SetGlobalLogger(logFilename string, logLevel string) {
	if logFilename == "" {
		logFilename = defaultLogFilePath
	}
	Global.SetOutput(io.MultiWriter(rotatingFile(logFilename), os.Stdout))

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = defaultLogLevel
	}
	Global.SetLevel(level)
}

// NewLogger creates a file-only logger, used for per-database or per-run logs.
func NewLogger(logFilename string, logLevel string) *Logger {
	if logFilename == "" {
		logFilename = defaultLogFilePath
	}
	l := createStandardLogger(logFilename, logLevel, false)
	l.WithFields(Fields{
		"path":  logFilename,
		"level": logLevel,
	}).Debug("Logger started")
	return l
}

// New builds a logger writing to stdout and configured by opts.
func New(opts ...Options) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(defaultLogLevel)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func rotatingFile(logFilename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   logFilename,
		MaxSize:    defaultLogMaxSize,
		MaxBackups: defaultLogMaxBackups,
		MaxAge:     defaultLogMaxAge,
	}
}

func createStandardLogger(logFilename string, logLevel string, stdOut bool) *Logger {
	logger := logrus.New()
	output := rotatingFile(logFilename)

	if stdOut {
		logger.SetOutput(io.MultiWriter(output, os.Stdout))
	} else {
		logger.SetOutput(output)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		PadLevelText:    true,
		FullTimestamp:   true,
		TimestampFormat: "01-02|15:04:05.000",
	})
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = defaultLogLevel
	}
	logger.SetLevel(level)
	return logger
}

func WithField(key string, val interface{}) *logrus.Entry {
	return Global.WithField(key, val)
}

func WithFields(fields Fields) *logrus.Entry {
	return Global.WithFields(fields)
}

func Trace(keyvals ...interface{}) {
	Global.Trace(keyvals...)
}

func Tracef(msg string, args ...interface{}) {
	Global.Tracef(msg, args...)
}

func Debug(keyvals ...interface{}) {
	Global.Debug(keyvals...)
}

func Debugf(msg string, args ...interface{}) {
	Global.Debugf(msg, args...)
}

func Info(keyvals ...interface{}) {
	Global.Info(keyvals...)
}

func Infof(msg string, args ...interface{}) {
	Global.Infof(msg, args...)
}

func Warn(keyvals ...interface{}) {
	Global.Warn(keyvals...)
}

func Warnf(msg string, args ...interface{}) {
	Global.Warnf(msg, args...)
}

func Error(keyvals ...interface{}) {
	Global.Error(keyvals...)
}

func Errorf(msg string, args ...interface{}) {
	Global.Errorf(msg, args...)
}

func Fatal(keyvals ...interface{}) {
	Global.Fatal(keyvals...)
}

func Fatalf(msg string, args ...interface{}) {
	Global.Fatalf(msg, args...)
}
