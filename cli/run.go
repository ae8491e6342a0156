package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	runSvc "go.keploy.io/apicase/pkg/service/run"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func init() {
	Register("run", Run)
}

func Run(ctx context.Context, logger *zap.Logger, _ *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "run",
		Short:   "execute the cases of one or more batch files",
		Example: `apicase run -f ./cases/signup.yaml -f ./cases/orders.yaml --parallel 2`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.Validate(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			var runner runSvc.Service
			var ok bool
			if runner, ok = svc.(runSvc.Service); !ok {
				err := errors.New("service doesn't satisfy run service interface")
				utils.LogError(logger, err, "failed to start run")
				return err
			}

			_, err = runner.Run(ctx)
			if err != nil {
				var appErr models.AppError
				if errors.As(err, &appErr) && appErr.AppErrorType == models.ErrCasesFailed {
					logger.Warn("run finished with failed cases", zap.Error(appErr.Err))
					return err
				}
				utils.LogError(logger, err, "failed to run batches")
				return err
			}
			logger.Info("all cases passed")
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add run flags")
		return nil
	}
	return cmd
}
