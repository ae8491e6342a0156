package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	serveSvc "go.keploy.io/apicase/pkg/service/serve"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func init() {
	Register("serve", Serve)
}

func Serve(ctx context.Context, logger *zap.Logger, _ *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "serve",
		Short:   "serve batch execution and records over HTTP",
		Example: `apicase serve --port 8086 --storageKind mongo --mongoURI mongodb://localhost:27017`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmdConfigurator.Validate(ctx, cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := serviceFactory.GetService(ctx, cmd.Name())
			if err != nil {
				utils.LogError(logger, err, "failed to get service", zap.String("command", cmd.Name()))
				return err
			}
			server, ok := svc.(serveSvc.Service)
			if !ok {
				err := errors.New("service doesn't satisfy serve service interface")
				utils.LogError(logger, err, "failed to start server")
				return err
			}
			if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				utils.LogError(logger, err, "server stopped with error")
				return err
			}
			return nil
		},
	}

	if err := cmdConfigurator.AddFlags(cmd); err != nil {
		utils.LogError(logger, err, "failed to add serve flags")
		return nil
	}
	return cmd
}
