package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	reportSvc "go.keploy.io/apicase/pkg/service/report"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func init() {
	Register("report", Report)
}

func Report(ctx context.Context, logger *zap.Logger, _ *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "report",
		Short:   "list stored records or print one of them",
		Example: `apicase report --record 3f9a1c2e-...`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.Validate(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			var report reportSvc.Service
			var ok bool
			if report, ok = svc.(reportSvc.Service); !ok {
				err := errors.New("service doesn't satisfy report service interface")
				utils.LogError(logger, err, "failed to generate report")
				return err
			}
			if err := report.GenerateReport(ctx); err != nil {
				utils.LogError(logger, err, "failed to generate report")
				return err
			}
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add report flags")
		return nil
	}
	return cmd
}
