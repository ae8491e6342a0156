package provider

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/platform/filestore"
	"go.keploy.io/apicase/pkg/platform/mgo"
	"go.keploy.io/apicase/pkg/platform/yaml/casedb"
	"go.keploy.io/apicase/pkg/platform/yaml/reportdb"
	"go.keploy.io/apicase/pkg/service/batch"
	"go.keploy.io/apicase/pkg/service/executor"
	"go.keploy.io/apicase/pkg/service/report"
	"go.keploy.io/apicase/pkg/service/run"
	"go.keploy.io/apicase/pkg/service/serve"
	"go.keploy.io/apicase/pkg/service/tools"
	"go.keploy.io/apicase/utils"
	"go.keploy.io/apicase/utils/log"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	logger *zap.Logger
	cfg    *config.Config
	out    io.Writer
}

func NewServiceProvider(logger *zap.Logger, cfg *config.Config) *ServiceProvider {
	return &ServiceProvider{
		logger: logger,
		cfg:    cfg,
		out:    os.Stdout,
	}
}

func (n *ServiceProvider) GetService(ctx context.Context, cmd string) (interface{}, error) {
	loggers := n.moduleLoggers()

	switch cmd {
	case "config", "validate":
		return tools.NewTools(n.logger, n.cfg, casedb.New(loggers.GetLogger(log.ModuleStorage)), n.out), nil
	case "report":
		recordDB, err := n.recordDB(ctx, loggers.GetLogger(log.ModuleStorage))
		if err != nil {
			return nil, err
		}
		return report.New(n.logger, n.cfg, recordDB, n.out), nil
	case "run", "serve":
		recordDB, err := n.recordDB(ctx, loggers.GetLogger(log.ModuleStorage))
		if err != nil {
			return nil, err
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		exec, err := n.executor(loggers, reg)
		if err != nil {
			return nil, err
		}
		batches := batch.New(loggers.GetLogger(log.ModuleBatch), exec, recordDB, n.cfg.Execute.ParallelBatches)
		if cmd == "serve" {
			return serve.New(loggers.GetLogger(log.ModuleServe), n.cfg.Serve, batches, recordDB, reg), nil
		}
		return run.New(n.logger, n.cfg, casedb.New(loggers.GetLogger(log.ModuleStorage)), batches, n.out), nil
	default:
		return nil, errors.New("invalid command")
	}
}

func (n *ServiceProvider) moduleLoggers() *log.ModuleLoggerFactory {
	modules := make(map[string]bool, len(n.cfg.DebugModules))
	for _, m := range n.cfg.DebugModules {
		modules[m] = true
	}
	return log.NewModuleLoggerFactory(n.logger, n.cfg.Debug, modules)
}

func (n *ServiceProvider) executor(loggers *log.ModuleLoggerFactory, reg prometheus.Registerer) (*executor.Executor, error) {
	var opts []executor.Option
	if !n.cfg.Execute.Quiet {
		opts = append(opts, executor.WithOutput(n.out))
	}
	metrics := executor.NewMetrics(reg)

	if n.cfg.FileStore.IndexPath == "" {
		return executor.New(loggers.GetLogger(log.ModuleExecutor), n.cfg.Execute, nil, metrics, opts...), nil
	}
	files, err := filestore.New(loggers.GetLogger(log.ModuleFileStore), n.cfg.FileStore.IndexPath, n.cfg.FileStore.CacheSize)
	if err != nil {
		utils.LogError(n.logger, err, "failed to open the file index", zap.String("path", n.cfg.FileStore.IndexPath))
		return nil, err
	}
	return executor.New(loggers.GetLogger(log.ModuleExecutor), n.cfg.Execute, files, metrics, opts...), nil
}

func (n *ServiceProvider) recordDB(ctx context.Context, logger *zap.Logger) (batch.RecordDB, error) {
	if n.cfg.Storage.Kind != config.StorageMongo {
		return reportdb.New(logger, n.cfg.Path), nil
	}

	client, err := mgo.New(ctx, n.cfg.Storage.MongoURI)
	if err != nil {
		utils.LogError(n.logger, err, "failed to connect to mongo")
		return nil, err
	}
	go func() {
		<-ctx.Done()
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			utils.LogError(n.logger, err, "failed to disconnect from mongo")
		}
	}()
	return mgo.NewRecordDB(client, n.cfg.Storage.Database, logger), nil
}
