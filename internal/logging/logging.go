package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared application logger. Call Init once at startup; before
// that it writes to stderr with the default formatter.
var Logger = logrus.New()

var once sync.Once

// Init routes the logger through a rotating file and keeps a copy on stderr.
func Init(logFile string) {
	once.Do(func() {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}

		Logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		Logger.SetLevel(logrus.InfoLevel)
	})
}
