package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/locator/di"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the container's registrations",
	Long: `List every registration in declaration order without constructing
anything. Singletons show as lazy until something resolves them.

Examples:
  locator list
  locator list --json | jq '.registrations[].service'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Container.ValidateOnStart = false

		app, err := newApp(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return app.RunTask(cmd.Context(), func(ctx context.Context) error {
			regs, cols := app.Container.Registrations(), app.Container.Collections()
			if listJSON {
				return writeJSON(cmd.OutOrStdout(), app.Container.ID(), regs, cols)
			}
			return writeTable(cmd.OutOrStdout(), regs, cols)
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print registrations as JSON")
}

func writeJSON(w io.Writer, containerID string, regs []di.RegistrationInfo, cols []di.CollectionInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"container_id":  containerID,
		"registrations": regs,
		"collections":   cols,
	})
}

func writeTable(w io.Writer, regs []di.RegistrationInfo, cols []di.CollectionInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tKEY\tLIFESTYLE\tKIND\tSTATE\tSOURCE")
	for _, r := range regs {
		state := "lazy"
		if r.Materialized {
			state = "materialized"
		} else if r.Lifestyle == di.Transient.String() {
			state = "-"
		}
		key := r.Key
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Service, key, r.Lifestyle, r.Kind, state, r.Source)
	}
	for _, c := range cols {
		fmt.Fprintf(tw, "[]%s\t-\tcollection\t%d items\t-\t%s\n", c.Service, c.Count, c.Source)
	}
	return tw.Flush()
}
