package cli

import (
	"fmt"
	"signin/internal/di"
	"signin/internal/structures"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	structures.CliFlags
	Format string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"table", "json", "yaml"}

// Runtime builds the dependency graphs commands run against.
type Runtime struct {
	InitCore func(*structures.CliFlags) (*di.Core, error)
	Serve    func(cmd *cobra.Command, flags *structures.CliFlags) error
}

func defaultRuntime() Runtime {
	return Runtime{
		InitCore: di.InitCore,
		Serve: func(cmd *cobra.Command, flags *structures.CliFlags) error {
			app, err := di.InitApp(flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(defaultRuntime())
}

// NewRootCommandWith creates the root command with a custom runtime.
func NewRootCommandWith(rt Runtime) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Attendance sign-in recorder",
		Long: `Records course attendance on the local device first and then makes
one best-effort attempt to forward each sign-in to the scheduler API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config/signin.yaml", "path to the config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", ".env", "optional .env file loaded before the config")
	cmd.PersistentFlags().BoolVarP(&opts.DebugMode, "debug", "d", false, "mirror logs to the console")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "table", "output format (table|json|yaml)")

	cmd.AddCommand(NewServeCommand(opts, rt))
	cmd.AddCommand(NewSignInCommand(opts, rt))
	cmd.AddCommand(NewRecordsCommand(opts, rt))
	cmd.AddCommand(NewProfileCommand(opts, rt))

	return cmd
}

func NewServeCommand(opts *RootOptions, rt Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.Serve(cmd, &opts.CliFlags); err != nil {
				return WrapExitError(ExitCommandError, "server stopped", err)
			}
			return nil
		},
	}
}

func withCore(opts *RootOptions, rt Runtime, fn func(core *di.Core) error) error {
	core, err := rt.InitCore(&opts.CliFlags)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialise", err)
	}
	defer core.Close()
	return fn(core)
}
