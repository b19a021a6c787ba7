package cli

import (
	"fmt"
	"signin/internal/di"
	"signin/internal/models"

	"github.com/spf13/cobra"
)

type RecordsClearOptions struct {
	*RootOptions
	Yes bool
}

func NewRecordsCommand(rootOpts *RootOptions, rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List or clear local sign-in records",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(rootOpts, rt, func(core *di.Core) error {
				records, err := core.Service.Records(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "failed to read records", err)
				}
				handled, err := writeStructured(cmd.OutOrStdout(), rootOpts.Format, recordsOutput{Records: records, Count: records.Len()})
				if err != nil || handled {
					return err
				}
				return writeRecordsTable(cmd.OutOrStdout(), records)
			})
		},
	}

	clearOpts := &RecordsClearOptions{RootOptions: rootOpts}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every local record",
		Long: `Delete every local sign-in record. Records already forwarded to the
scheduler API are not affected. Requires --yes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearOpts.Yes {
				return NewExitError(ExitCommandError, "refusing to clear records without --yes")
			}
			return withCore(rootOpts, rt, func(core *di.Core) error {
				if err := core.Service.ClearRecords(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "failed to clear records", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All records cleared.")
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVarP(&clearOpts.Yes, "yes", "y", false, "confirm deletion")

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

type recordsOutput struct {
	Records models.RecordCollection `json:"records" yaml:"records"`
	Count   int                     `json:"count" yaml:"count"`
}
