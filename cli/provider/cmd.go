// Package provider wires flags, configuration and services for the apicase commands.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/utils"
	"go.keploy.io/apicase/utils/log"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func LogExample(example string) string {
	return fmt.Sprintf("Example usage: %s", example)
}

var RootCustomHelpTemplate = `{{.Short}}

Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`

var RootExamples = `
  Run:
	apicase run -f ./cases/signup.yaml -f ./cases/orders.yaml

  Validate:
	apicase validate -f ./cases/signup.yaml

  Serve:
	apicase serve --port 8086 --storageKind mongo

  Report:
	apicase report --record <recordID>

  Config:
	apicase config --generate --configPath "/path/to/localdir"
`

// stdoutIsTerminal reports whether colour codes would reach a terminal.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var VersionTemplate = `{{with .Version}}{{printf "apicase %s" .}}{{end}}{{"\n"}}`

// flagKeys maps flag names onto their nested config keys.
var flagKeys = map[string]string{
	"batchFiles":         "execute.batchFiles",
	"apiTimeout":         "execute.apiTimeout",
	"rateLimit":          "execute.rateLimit",
	"burst":              "execute.burst",
	"insecureSkipVerify": "execute.insecureSkipVerify",
	"parallel":           "execute.parallelBatches",
	"quiet":              "execute.quiet",
	"storageKind":        "storage.kind",
	"mongoURI":           "storage.mongoURI",
	"database":           "storage.database",
	"fileIndex":          "fileStore.indexPath",
	"fileCacheSize":      "fileStore.cacheSize",
	"port":               "serve.port",
	"record":             "report.recordId",
}

type CmdConfigurator struct {
	logger *zap.Logger
	cfg    *config.Config
}

func NewCmdConfigurator(logger *zap.Logger, cfg *config.Config) *CmdConfigurator {
	return &CmdConfigurator{
		logger: logger,
		cfg:    cfg,
	}
}

func (c *CmdConfigurator) AddFlags(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "apicase":
		cmd.PersistentFlags().Bool("debug", c.cfg.Debug, "Run in debug mode")
		cmd.PersistentFlags().StringSlice("debugModules", c.cfg.DebugModules, "Enable debug logs only for the given modules e.g. --debugModules executor,storage")
		cmd.PersistentFlags().Bool("disableANSI", c.cfg.DisableANSI, "Disable ANSI colour codes in the output")
		cmd.PersistentFlags().String("configPath", ".", "Path to the local directory where the apicase configuration file is stored")
		cmd.PersistentFlags().StringP("path", "p", c.cfg.Path, "Path to the local directory where records are stored")
		if err := viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug")); err != nil {
			errMsg := "failed to bind flag to config"
			utils.LogError(c.logger, err, errMsg)
			return errors.New(errMsg)
		}
	case "config":
		cmd.Flags().Bool("generate", false, "Generate a new apicase configuration file")
	case "validate":
		cmd.Flags().StringSliceP("batchFiles", "f", c.cfg.Execute.BatchFiles, "Batch files to check")
	case "run", "serve":
		if cmd.Name() == "run" {
			cmd.Flags().StringSliceP("batchFiles", "f", c.cfg.Execute.BatchFiles, "Batch files to run e.g. -f signup.yaml -f orders.yaml")
			cmd.Flags().Int("parallel", c.cfg.Execute.ParallelBatches, "Number of batches executed at the same time")
			cmd.Flags().Bool("quiet", c.cfg.Execute.Quiet, "Do not print a line per finished case")
		} else {
			cmd.Flags().Uint32("port", c.cfg.Serve.Port, "Port the HTTP API listens on")
		}
		cmd.Flags().Uint64("apiTimeout", c.cfg.Execute.APITimeout, "Timeout in seconds for every request sent to a target")
		cmd.Flags().Float64("rateLimit", c.cfg.Execute.RateLimit, "Maximum requests per second across all batches, 0 disables the limit")
		cmd.Flags().Int("burst", c.cfg.Execute.Burst, "Requests allowed to exceed the rate limit at once")
		cmd.Flags().Bool("insecureSkipVerify", c.cfg.Execute.InsecureSkipVerify, "Skip TLS certificate verification of targets")
		cmd.Flags().String("fileIndex", c.cfg.FileStore.IndexPath, "Path to the yaml index of files that multipart cases may upload")
		cmd.Flags().Int("fileCacheSize", c.cfg.FileStore.CacheSize, "Number of file index entries kept in memory")
		c.addStorageFlags(cmd)
	case "report":
		cmd.Flags().StringP("record", "r", c.cfg.Report.RecordID, "Record to print, all records are listed when empty")
		c.addStorageFlags(cmd)
	default:
		return errors.New("unknown command name")
	}
	return nil
}

func (c *CmdConfigurator) addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&c.cfg.Storage.Kind, "storageKind", `Where records are kept, "yaml" or "mongo"`)
	cmd.Flags().String("mongoURI", c.cfg.Storage.MongoURI, "MongoDB connection string used with --storageKind mongo")
	cmd.Flags().String("database", c.cfg.Storage.Database, "MongoDB database used with --storageKind mongo")
}

func (c *CmdConfigurator) ValidateFlags(_ context.Context, cmd *cobra.Command) error {
	if err := utils.BindFlagsToViper(c.logger, cmd, ""); err != nil {
		errMsg := "failed to bind flags to config"
		utils.LogError(c.logger, err, errMsg)
		return errors.New(errMsg)
	}
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			errMsg := "failed to bind flag to config"
			utils.LogError(c.logger, err, errMsg, zap.String("flag", name))
			return errors.New(errMsg)
		}
	}

	configPath, err := cmd.Flags().GetString("configPath")
	if err != nil {
		utils.LogError(c.logger, err, "failed to read the config path")
		return err
	}
	viper.SetConfigName("apicase")
	viper.SetConfigType("yml")
	viper.AddConfigPath(configPath)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			errMsg := "failed to read config file"
			utils.LogError(c.logger, err, errMsg)
			return errors.New(errMsg)
		}
		c.logger.Debug("config file not found; proceeding with flags only")
	}

	if err := viper.Unmarshal(c.cfg); err != nil {
		errMsg := "failed to unmarshal the config"
		utils.LogError(c.logger, err, errMsg)
		return errors.New(errMsg)
	}
	c.cfg.ConfigPath = configPath

	if c.cfg.DisableANSI || !stdoutIsTerminal() {
		models.IsAnsiDisabled = true
		color.NoColor = true
	}

	if c.cfg.Debug {
		logger, err := log.ChangeLogLevel(zap.DebugLevel)
		if err != nil {
			errMsg := "failed to change log level"
			utils.LogError(c.logger, err, errMsg)
			return errors.New(errMsg)
		}
		*c.logger = *logger
	}
	c.logger.Debug("config has been initialised", zap.String("for cmd", cmd.Name()), zap.Any("config", c.cfg))
	return nil
}

// Validate loads the configuration for cmd and checks what the command needs
// before any service is built.
func (c *CmdConfigurator) Validate(ctx context.Context, cmd *cobra.Command) error {
	if err := c.ValidateFlags(ctx, cmd); err != nil {
		return err
	}

	switch cmd.Name() {
	case "run", "validate":
		c.cfg.Execute.BatchFiles = append(c.cfg.Execute.BatchFiles, cmd.Flags().Args()...)
		if len(c.cfg.Execute.BatchFiles) == 0 {
			utils.LogError(c.logger, nil, "missing required -f flag or execute.batchFiles in config file")
			c.logger.Info(LogExample(cmd.Example))
			return errors.New("missing required -f flag or execute.batchFiles in config file")
		}
	}

	switch cmd.Name() {
	case "run", "serve", "report":
		switch c.cfg.Storage.Kind {
		case "", config.StorageYaml:
			c.cfg.Storage.Kind = config.StorageYaml
		case config.StorageMongo:
			if c.cfg.Storage.MongoURI == "" {
				return errors.New("missing --mongoURI for mongo storage")
			}
			if c.cfg.Storage.Database == "" {
				return errors.New("missing --database for mongo storage")
			}
		default:
			return fmt.Errorf("unknown storage kind %q", c.cfg.Storage.Kind)
		}

		absPath, err := filepath.Abs(c.cfg.Path)
		if err != nil {
			errMsg := "failed to get the absolute path from relative path"
			utils.LogError(c.logger, err, errMsg)
			return errors.New(errMsg)
		}
		c.cfg.Path = absPath
	}
	return nil
}
