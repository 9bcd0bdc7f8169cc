package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/hance08/ledgerd/internal/app"
	"github.com/hance08/ledgerd/internal/config"
	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/errhandler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	v          *viper.Viper
	cfgFile    string
	cfg        *config.Config
	migrations fs.FS
}

func Execute(migrations fs.FS) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(migrations).ExecuteContext(ctx); err != nil {
		errhandler.HandleError(err)
	}
}

func NewRootCmd(migrations fs.FS) *cobra.Command {
	opts := &rootOptions{
		v:          viper.New(),
		migrations: migrations,
	}

	rootCmd := &cobra.Command{
		Use:   constants.AppName + " [flags] <transactions.csv>",
		Short: "ledgerd replays a transaction log into per-client account balances",
		Long: `ledgerd reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file and prints the resulting state of every client account.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &processRunner{
				cfg:        opts.cfg,
				migrations: opts.migrations,
				in:         cmd.InOrStdin(),
				out:        cmd.OutOrStdout(),
				errOut:     cmd.ErrOrStderr(),
			}

			return runner.Run(cmd.Context(), args[0])
		},
	}

	defaults := config.NewDefault()

	pflags := rootCmd.PersistentFlags()
	pflags.StringVarP(&opts.cfgFile, "config", "c", "", "set the config file path")
	pflags.String("log-level", defaults.Log.Level, "log level (trace, debug, info, warn, error, off)")
	pflags.String("log-format", defaults.Log.Format, "log format (color, json)")

	flags := rootCmd.Flags()
	flags.StringP("format", "f", defaults.Output.Format, "output format (csv, table)")
	flags.IntP("workers", "w", defaults.Processing.Workers, "number of account shards processed in parallel")
	flags.String("export-sqlite", defaults.Export.SQLite, "also write the final accounts to this SQLite file")
	flags.Bool("force", defaults.Export.Overwrite, "replace an existing SQLite export without asking")
	flags.String("metrics-file", defaults.Metrics.File, "write run metrics in Prometheus text format to this file")

	bindings := map[string]string{
		"log.level":          "log-level",
		"log.format":         "log-format",
		"output.format":      "format",
		"processing.workers": "workers",
		"export.sqlite":      "export-sqlite",
		"export.overwrite":   "force",
		"metrics.file":       "metrics-file",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			flag = pflags.Lookup(name)
		}
		// Lookup only fails on a typo in the table above.
		_ = opts.v.BindPFlag(key, flag)
	}

	rootCmd.AddCommand(NewInfoCmd(opts))

	return rootCmd
}

func (o *rootOptions) initConfig() error {
	v := o.v

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		appDir, err := app.DataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		v.AddConfigPath(appDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // allow using environment variables to override

	if err := v.ReadInConfig(); err != nil {
		if o.cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := config.NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	return nil
}
