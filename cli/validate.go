package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	toolsSvc "go.keploy.io/apicase/pkg/service/tools"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func init() {
	Register("validate", Validate)
}

func Validate(ctx context.Context, logger *zap.Logger, _ *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "validate",
		Short:   "check batch files for mistakes without sending any request",
		Example: `apicase validate -f ./cases/signup.yaml`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.Validate(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			tools, ok := svc.(toolsSvc.Service)
			if !ok {
				err := errors.New("service doesn't satisfy tools service interface")
				utils.LogError(logger, err, "failed to start validation")
				return err
			}
			if err := tools.Validate(ctx); err != nil {
				utils.LogError(logger, err, "batch validation failed")
				return err
			}
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add validate flags")
		return nil
	}
	return cmd
}
