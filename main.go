package main

import (
	"context"
	"fmt"
	"os"

	"go.keploy.io/apicase/cli"
	"go.keploy.io/apicase/cli/provider"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/utils"
	"go.keploy.io/apicase/utils/log"
)

// version is the version of apicase and will be injected during build by ldflags
// see https://goreleaser.com/customization/build/
var version string
var dsn string

func main() {
	setVersion()
	ctx := utils.NewCtx()
	os.Exit(start(ctx))
}

func setVersion() {
	if version == "" {
		version = "1-dev"
	}
	utils.Version = version
}

func start(ctx context.Context) int {
	logger, logFile, err := log.New()
	if err != nil {
		fmt.Println("Failed to start the logger for the CLI", err)
		return 1
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			utils.LogError(logger, err, "Failed to close apicase logs")
		}
	}()
	defer utils.Recover(logger)

	conf := config.New()
	conf.Version = version
	if conf.SentryDSN == "" {
		conf.SentryDSN = dsn
	}
	utils.InitSentry(conf.SentryDSN)

	svcProvider := provider.NewServiceProvider(logger, conf)
	cmdConfigurator := provider.NewCmdConfigurator(logger, conf)
	rootCmd := cli.Root(ctx, logger, conf, svcProvider, cmdConfigurator)
	if rootCmd == nil {
		return 1
	}
	if err := rootCmd.Execute(); err != nil {
		if rootCmd.SilenceErrors {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
