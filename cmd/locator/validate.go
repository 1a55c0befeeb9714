package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/locator/errors"
)

var validateMode string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Resolve every registration once and report failures",
	Long: `Run the eager validation pass: lock the container, resolve every
registration once, and report what failed. Exits non-zero on failure.

Examples:
  locator validate
  locator validate --mode fail_fast`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Container.ValidateOnStart = false
		if validateMode != "" {
			cfg.Container.ValidationMode = validateMode
		}

		app, err := newApp(cfg, io.Discard)
		if err != nil {
			return err
		}
		return app.RunTask(cmd.Context(), func(ctx context.Context) error {
			err := app.Container.ValidateContext(ctx)
			report(cmd.OutOrStdout(), len(app.Container.Registrations()), err)
			return err
		})
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateMode, "mode", "",
		"validation mode: fail_fast or aggregate (default from config)")
}

func report(w io.Writer, registered int, err error) {
	if err == nil {
		fmt.Fprintf(w, "✅ %d registrations valid\n", registered)
		return
	}

	failures := []error{err}
	if appErr, ok := errors.AsAppError(err); ok && appErr.Cause != nil {
		failures = []error{appErr.Cause}
		if joined, ok := appErr.Cause.(interface{ Unwrap() []error }); ok {
			failures = joined.Unwrap()
		}
	}
	fmt.Fprintf(w, "❌ %d of %d registrations failed\n", len(failures), registered)
	for i, f := range failures {
		prefix := "├──"
		if i == len(failures)-1 {
			prefix = "└──"
		}
		fmt.Fprintf(w, "   %s %v\n", prefix, f)
	}
}
