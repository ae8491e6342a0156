package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
)

type fakeConfigurator struct {
	validated []string
}

func (f *fakeConfigurator) AddFlags(cmd *cobra.Command) error {
	if cmd.Name() == "config" {
		cmd.Flags().Bool("generate", false, "")
	}
	return nil
}

func (f *fakeConfigurator) ValidateFlags(_ context.Context, cmd *cobra.Command) error {
	f.validated = append(f.validated, cmd.Name())
	return nil
}

func (f *fakeConfigurator) Validate(ctx context.Context, cmd *cobra.Command) error {
	return f.ValidateFlags(ctx, cmd)
}

type fakeFactory struct {
	svc interface{}
	err error
}

func (f *fakeFactory) GetService(context.Context, string) (interface{}, error) {
	return f.svc, f.err
}

type fakeRunner struct {
	err error
}

func (f *fakeRunner) Run(context.Context) ([]*models.Record, error) {
	return nil, f.err
}

func execute(t *testing.T, factory ServiceFactory, conf *fakeConfigurator, args ...string) error {
	t.Helper()
	root := Root(context.Background(), zap.NewNop(), &config.Config{}, factory, conf)
	require.NotNil(t, root)
	root.SetArgs(args)
	return root.Execute()
}

// TestRoot_RegistersCommands tests that every registered command is attached in name order
func TestRoot_RegistersCommands(t *testing.T) {
	root := Root(context.Background(), zap.NewNop(), &config.Config{}, &fakeFactory{}, &fakeConfigurator{})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Equal(t, []string{"config", "report", "run", "serve", "validate"}, names)
}

// TestRun_ExitCodes tests how run reports service outcomes
func TestRun_ExitCodes(t *testing.T) {
	failed := models.AppError{AppErrorType: models.ErrCasesFailed, Err: errors.New("1 of 1 batches have failed cases")}
	tests := []struct {
		name    string
		factory *fakeFactory
		wantErr error
	}{
		{"passed", &fakeFactory{svc: &fakeRunner{}}, nil},
		{"failed cases", &fakeFactory{svc: &fakeRunner{err: failed}}, failed},
		{"factory error", &fakeFactory{err: errors.New("no mongo")}, errors.New("no mongo")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &fakeConfigurator{}

			err := execute(t, tt.factory, conf, "run")

			assert.Equal(t, []string{"run"}, conf.validated)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr.Error(), err.Error())
		})
	}
}

// TestRun_WrongService tests that a service of the wrong type is reported instead of panicking
func TestRun_WrongService(t *testing.T) {
	err := execute(t, &fakeFactory{svc: "not a runner"}, &fakeConfigurator{}, "run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run service interface")
}

// TestConfig_RequiresGenerate tests that config does nothing without --generate
func TestConfig_RequiresGenerate(t *testing.T) {
	err := execute(t, &fakeFactory{}, &fakeConfigurator{}, "config")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate")
}
