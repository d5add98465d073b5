package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hcaim/ai-footprint/internal/carbon"
	"github.com/hcaim/ai-footprint/internal/greencheck"
	"github.com/hcaim/ai-footprint/internal/refdata"
)

const longDescription = `Estimates the yearly carbon footprint of a generative AI application across
training, inference, end-user devices, network traffic and hosting, and
rates it on an indicative A-G energy label.`

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  zerolog.Logger

	// stderr receives log output.
	stderr io.Writer

	catalog *refdata.Catalog

	// checker overrides the configured green hosting client.
	checker greencheck.Checker
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(&app{v: viper.New()})
}

func newRootCmdWithApp(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ai-footprint",
		Short:         "Carbon footprint estimates for municipal generative AI",
		Long:          longDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.ai-footprint.yaml or ./config/.ai-footprint.yaml)")
	flags.String("log-level", defaultLevel, "log level: trace|debug|info|warn|error|disabled")
	flags.String("data-dir", "", "directory with reference data overrides (CSV tables, calibration.yaml)")

	_ = a.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(keyDataDir, flags.Lookup("data-dir"))

	root.AddCommand(
		newCalculateCmd(a),
		newWatchCmd(a),
		newGreenCheckCmd(a),
		newRefdataCmd(a),
		newLabelCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.stderr == nil {
		a.stderr = cmd.ErrOrStderr()
	}

	envFile, err := loadEnvFile(envFilePaths())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	a.logger.Debug().
		Str("config_file", cfg.File).
		Str("env_file", envFile).
		Str("data_dir", cfg.DataDir).
		Msg("configuration loaded")
	return nil
}

// loadCatalog returns the embedded reference data, or the overrides in the
// configured data directory.
func (a *app) loadCatalog() (*refdata.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}

	var (
		catalog *refdata.Catalog
		err     error
	)
	if a.cfg.DataDir != "" {
		catalog, err = refdata.LoadDir(a.cfg.DataDir, a.logger)
	} else {
		catalog, err = refdata.Load(a.logger)
	}
	if err != nil {
		return nil, err
	}
	a.catalog = catalog
	return catalog, nil
}

func (a *app) engine() (*refdata.Catalog, *carbon.Calculator, error) {
	catalog, err := a.loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	return catalog, carbon.NewCalculator(catalog, a.logger), nil
}

func (a *app) greenChecker() greencheck.Checker {
	if a.checker != nil {
		return a.checker
	}
	return greencheck.NewClient(a.logger,
		greencheck.WithBaseURL(a.cfg.GreenCheck.BaseURL),
		greencheck.WithTimeout(a.cfg.GreenCheck.Timeout),
	)
}
