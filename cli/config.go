package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	toolsSvc "go.keploy.io/apicase/pkg/service/tools"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func init() {
	Register("config", Config)
}

func Config(ctx context.Context, logger *zap.Logger, cfg *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "config",
		Short:   "manage the apicase configuration file",
		Example: "apicase config --generate --configPath /path/to/localdir",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmdConfigurator.ValidateFlags(ctx, cmd); err != nil {
				utils.LogError(logger, err, "failed to validate flags")
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			isGenerate, err := cmd.Flags().GetBool("generate")
			if err != nil {
				utils.LogError(logger, err, "failed to get generate flag")
				return err
			}
			if !isGenerate {
				return errors.New("only generate flag is supported in the config command")
			}

			dir := cfg.ConfigPath
			if dir == "" {
				dir = "."
			}
			filePath := filepath.Join(dir, "apicase.yml")
			if utils.CheckFileExists(filePath) {
				override, err := utils.AskForConfirmation("Config file already exists. Do you want to override it?")
				if err != nil {
					utils.LogError(logger, err, "failed to ask for confirmation")
					return err
				}
				if !override {
					return nil
				}
			}

			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service")
				return err
			}
			tools, ok := svc.(toolsSvc.Service)
			if !ok {
				err := errors.New("service doesn't satisfy tools service interface")
				utils.LogError(logger, err, "failed to create config")
				return err
			}
			if err := tools.CreateConfig(ctx, filePath, ""); err != nil {
				utils.LogError(logger, err, "failed to create config")
				return err
			}
			return nil
		},
	}
	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add flags")
		return nil
	}
	return cmd
}
