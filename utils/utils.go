package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Emoji = "\U0001F9EA" + " apicase:"

var Version string

const LogFile = "apicase-logs.txt"

// LogError logs err at error level. Cancellation is not an error worth
// reporting; it means the user or the server asked us to stop.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Debug(msg, append(fields, zap.Error(err))...)
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Error(msg, fields...)
}

// ConfigGuide is appended to generated config files.
var ConfigGuide = `
# Batch files can also be listed here instead of passing -f:
#execute:
#  batchFiles: ["./cases/signup.yaml", "./cases/orders.yaml"]
#  rateLimit: 5 # requests per second, 0 disables limiting
#
# Multipart params of the form "file:<id>" are resolved through the index:
#fileStore:
#  indexPath: "./files.yaml"
#
# Visit https://keploy.io/docs for more configuration options.
`

// AskForConfirmation prompts on stdin until the answer is yes or no.
func AskForConfirmation(s string) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s [y/n]: ", s)
		response, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(response)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func CheckFileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

// InitSentry wires panic reporting. An empty dsn disables it.
func InitSentry(dsn string) {
	if dsn == "" {
		return
	}
	_ = sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: Version,
	})
}

func attachLogFileToSentry(logFilePath string) {
	content, err := os.ReadFile(logFilePath)
	if err != nil {
		return
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetExtra("logfile", string(content))
	})
}

// Recover reports a panic to sentry and logs the stack trace. It must be
// deferred directly.
func Recover(logger *zap.Logger) {
	if r := recover(); r != nil {
		attachLogFileToSentry("./" + LogFile)
		sentry.CaptureException(errors.New(fmt.Sprint(r)))
		stackTrace := debug.Stack()
		if logger != nil {
			logger.Error(Emoji+" recovered from panic", zap.Any("panic", r), zap.String("stack trace", string(stackTrace)))
		}
		sentry.Flush(2 * time.Second)
	}
}

// BindFlagsToViper binds every flag of cmd into viper using its dotted
// config key, e.g. "api-timeout" of the "execute" section.
func BindFlagsToViper(logger *zap.Logger, cmd *cobra.Command, viperKeyPrefix string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		key := flag.Name
		if viperKeyPrefix != "" {
			key = viperKeyPrefix + "." + key
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			LogError(logger, err, "failed to bind flag to config", zap.String("flag", flag.Name))
			bindErr = err
		}
		// flags such as --api-timeout are also reachable as apiTimeout
		if strings.Contains(flag.Name, "-") {
			camel := kebabToCamel(flag.Name)
			if viperKeyPrefix != "" {
				camel = viperKeyPrefix + "." + camel
			}
			if err := viper.BindPFlag(camel, flag); err != nil {
				bindErr = err
			}
		}
	})
	return bindErr
}

func kebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
