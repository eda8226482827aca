package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conn-castle/depgate/internal/config"
	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/registry"
)

const (
	flagConfig  = "config"
	flagMachine = "machine"
	flagVerbose = "verbose"
)

var (
	loadConfig = config.Load
	newStore   = func(paths registry.Paths) *registry.FileStore {
		return registry.NewFileStore(paths, nil)
	}
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	machine    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, flagConfig, config.DefaultPath, messages.FlagConfig)
	cmd.PersistentFlags().BoolVar(&opts.machine, flagMachine, false, messages.FlagMachine)
	cmd.PersistentFlags().BoolVarP(&opts.verbose, flagVerbose, "v", false, messages.FlagVerbose)

	cmd.AddCommand(
		newCheckCmd(opts),
		newRegistryCmd(opts),
		newMcpPromptsCmd(opts),
	)
	return cmd
}

// newLogger builds the CLI's console logger on w. It logs warnings and above
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// session is the state every subcommand rebuilds from the global flags.
type session struct {
	cfg    *config.Config
	store  *registry.FileStore
	logger *zap.Logger
}

func openSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	paths, err := cfg.RegistryPaths()
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved registry paths",
		zap.String("config", opts.configPath),
		zap.String("machine", paths.Machine),
		zap.String("user", paths.User),
	)
	return &session{cfg: cfg, store: newStore(paths), logger: logger}, nil
}

// flagHive returns the hive selected by --machine.
func flagHive(opts *globalOptions) gate.Hive {
	return gate.HiveFor(opts.machine)
}
