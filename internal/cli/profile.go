package cli

import (
	"fmt"
	"signin/internal/di"
	"signin/internal/models"
	"signin/internal/services"

	"github.com/spf13/cobra"
)

type ProfileSetOptions struct {
	*RootOptions
	Nickname string
	Phone    string
}

type profileOutput struct {
	Profile    models.Profile `json:"profile" yaml:"profile"`
	Operator   string         `json:"operator" yaml:"operator"`
	KeyPreview string         `json:"keyPreview" yaml:"keyPreview"`
}

func NewProfileCommand(rootOpts *RootOptions, rt Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the operator profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile and scheduler key preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(rootOpts, rt, func(core *di.Core) error {
				p, err := core.Profiles.Load(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "failed to read profile", err)
				}
				return writeProfile(cmd, rootOpts.Format, p, core.Conf.Remote.Key)
			})
		},
	}

	setOpts := &ProfileSetOptions{RootOptions: rootOpts}
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Save the operator nickname and phone",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(rootOpts, rt, func(core *di.Core) error {
				current, err := core.Profiles.Load(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "failed to read profile", err)
				}
				if cmd.Flags().Changed("nickname") {
					current.Nickname = setOpts.Nickname
				}
				if cmd.Flags().Changed("phone") {
					current.Phone = setOpts.Phone
				}
				saved, err := core.Profiles.Save(cmd.Context(), current)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to save profile", err)
				}
				return writeProfile(cmd, rootOpts.Format, saved, core.Conf.Remote.Key)
			})
		},
	}
	setCmd.Flags().StringVar(&setOpts.Nickname, "nickname", "", "operator nickname")
	setCmd.Flags().StringVar(&setOpts.Phone, "phone", "", "operator phone")
	setCmd.MarkFlagsOneRequired("nickname", "phone")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func writeProfile(cmd *cobra.Command, format string, p models.Profile, key string) error {
	out := profileOutput{Profile: p, Operator: p.OperatorName(), KeyPreview: services.KeyPreview(key)}
	handled, err := writeStructured(cmd.OutOrStdout(), format, out)
	if err != nil || handled {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Nickname:      %s\n", p.Nickname)
	fmt.Fprintf(w, "Phone:         %s\n", p.Phone)
	fmt.Fprintf(w, "Operator name: %s\n", out.Operator)
	fmt.Fprintf(w, "Scheduler key: %s\n", out.KeyPreview)
	return nil
}
