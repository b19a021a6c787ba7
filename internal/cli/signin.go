package cli

import (
	"fmt"
	"signin/internal/apperrors"
	"signin/internal/di"
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/services"

	"github.com/spf13/cobra"
)

type SignInOptions struct {
	*RootOptions
	Student string
	Course  string
	Remark  string
}

type signInOutput struct {
	Status  string        `json:"status" yaml:"status"`
	Sync    string        `json:"sync" yaml:"sync"`
	Record  models.Record `json:"record" yaml:"record"`
	Warning string        `json:"warning,omitempty" yaml:"warning,omitempty"`
}

func NewSignInCommand(rootOpts *RootOptions, rt Runtime) *cobra.Command {
	opts := &SignInOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Record that a student attended a course",
		Long: `Record a sign-in locally and forward it to the scheduler API.

Exits 3 when the record was saved locally but could not be forwarded.

Examples:
  signin sign-in --student Alice --course Piano
  signin sign-in -s Bob --remark "make-up lesson" --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(rootOpts, rt, func(core *di.Core) error {
				return runSignIn(cmd, opts, core)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Student, "student", "s", "", "student name (required)")
	_ = cmd.MarkFlagRequired("student")
	cmd.Flags().StringVar(&opts.Course, "course", "", "course, defaults to the first configured course")
	cmd.Flags().StringVar(&opts.Remark, "remark", "", "optional remark")

	return cmd
}

func runSignIn(cmd *cobra.Command, opts *SignInOptions, core *di.Core) error {
	ctx := cmd.Context()

	profile, err := core.Profiles.Load(ctx)
	if err != nil {
		core.Logger.Warnf(providers.TypeApp, "Profile unavailable, signing in with placeholder operator: %v", err)
		profile = models.Profile{}
	}

	res, err := core.Service.SignIn(ctx, services.SignInRequest{
		StudentName: opts.Student,
		Course:      opts.Course,
		Remark:      opts.Remark,
	}, profile)
	if err != nil {
		appErr := apperrors.FromError(err)
		return WrapExitError(ExitFailure, appErr.Message, appErr.Err)
	}

	out := signInOutput{
		Status: res.Status.String(),
		Sync:   res.Sync.Status.String(),
		Record: res.Record,
	}
	if res.Notice != nil {
		out.Warning = res.Notice.Error()
	}

	w := cmd.OutOrStdout()
	handled, err := writeStructured(w, opts.Format, out)
	if err != nil {
		return err
	}
	if !handled {
		fmt.Fprintf(w, "Signed in %s for %s at %s (id %s, sync %s)\n",
			res.Record.StudentName, res.Record.Course, res.Record.CreatedAt, res.Record.ID, out.Sync)
	}

	if res.Status == services.ResultPartialSuccess {
		return WrapExitError(ExitPartialSuccess, res.Notice.Message, res.Notice.Err)
	}
	return nil
}
