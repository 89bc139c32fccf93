package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	var err error
	var logFile FileLoggingHandler
	if saveLogFile {
		argsFileLogging := file.ArgsFileLogging{
			WorkingDir:      workingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		logFile, err = file.NewFileLogging(argsFileLogging)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	return logFile, nil
}

// LoadEnvOverrides reads the optional .env file and returns the values found for the
// provided keys. A missing file is not an error and keys that are not set are simply
// omitted from the result.
func LoadEnvOverrides(envFile string, keys []string) (map[string]string, error) {
	err := godotenv.Load(envFile)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) || errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}

		return nil, err
	}

	overrides := make(map[string]string)
	for _, k := range keys {
		val := os.Getenv(k)
		if len(val) > 0 {
			overrides[k] = val
		}
	}

	return overrides, nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
