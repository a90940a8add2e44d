package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecentCommand(opts *options) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			h, err := opts.history()
			if err != nil {
				return err
			}
			if clearAll {
				if err := h.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(opts.out, "Recent searches cleared.")
				return nil
			}
			terms, err := h.Terms()
			if err != nil {
				return err
			}
			if len(terms) == 0 {
				fmt.Fprintln(opts.out, "No recent searches.")
				return nil
			}
			for i, t := range terms {
				fmt.Fprintf(opts.out, "%d. %s\n", i+1, t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recent searches")
	return cmd
}
