package main

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("render cache is disabled (set cache.enabled or pass --cache)")

func newCacheCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := o.app.Cache
			if st == nil {
				return errCacheDisabled
			}
			if err := st.Purge(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", st.Path())
			return nil
		},
	})
	return cmd
}
