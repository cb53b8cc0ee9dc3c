package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createPrefsCmd() *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change preferences",
	}

	prefsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closePrefs, err := openPrefs(cmd.Context())
			if err != nil {
				return err
			}
			defer closePrefs()
			return printOutput(cmd.OutOrStdout(), p.Load(cmd.Context()))
		},
	})

	prefsCmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closePrefs, err := openPrefs(cmd.Context())
			if err != nil {
				return err
			}
			defer closePrefs()

			v, err := p.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	})

	prefsCmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closePrefs, err := openPrefs(cmd.Context())
			if err != nil {
				return err
			}
			defer closePrefs()
			return p.Set(cmd.Context(), args[0], args[1])
		},
	})

	return prefsCmd
}
