package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"dsexport/internal/app"
	"dsexport/internal/config"
	"dsexport/internal/domain"
)

// skipSetup marks commands that run without loading config or wiring.
const skipSetup = "skip-setup"

// errReported is returned when the failure was already shown to the user.
var errReported = errors.New("failed")

var (
	home       string
	configPath string
	serverURL  string
	verbose    bool

	appCtx *app.App
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, newRootCmd())
}

// run executes root and prints errors the reporter has not shown yet.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	appCtx = nil
	root := &cobra.Command{
		Use:           "dsexport",
		Short:         "Export labeled datasets from the export service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := resolvePaths(); err != nil {
				return err
			}
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			appCtx, err = app.New(app.Config{
				Home:     home,
				Settings: settings,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx != nil {
				return appCtx.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.dsexport)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.toml)")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "export service base URL (overrides server.url)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		formatsCmd(),
		historyCmd(),
		exportCmd(),
		modalCmd(),
		downloadsCmd(),
		configCmd(),
	)
	return root
}

func resolvePaths() error {
	if home == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		home = dir
	}
	if configPath == "" {
		configPath = filepath.Join(home, config.FileName)
	}
	return nil
}

// loadSettings reads the config file; the default path may be missing.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	optional := !cmd.Flags().Changed("config")
	settings, err := config.Load(configPath, optional)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		settings.Server.URL = serverURL
	}
	if verbose {
		settings.Log.Level = "debug"
	}
	return settings, settings.Validate()
}

// datasetArg returns the dataset reference from the first argument.
func datasetArg(args []string) (domain.DatasetRef, error) {
	ref := domain.DatasetRef(args[0])
	if ref.IsZero() {
		return "", domain.ErrNoDataset
	}
	return ref, nil
}

// reported maps errors the reporter already printed to errReported.
func reported(err error) error {
	if err == nil || errors.Is(err, domain.ErrNoDataset) {
		return err
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
