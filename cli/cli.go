// Package cli holds the cobra commands of apicase. Commands register
// themselves from init so Root only has to walk the registry.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.keploy.io/apicase/config"
	"go.uber.org/zap"
)

type HookFunc func(ctx context.Context, logger *zap.Logger, conf *config.Config, serviceFactory ServiceFactory, cmdConfigurator CmdConfigurator) *cobra.Command

// Registered holds the registered command hooks
var Registered map[string]HookFunc

func Register(name string, f HookFunc) {
	if Registered == nil {
		Registered = make(map[string]HookFunc)
	}
	Registered[name] = f
}
