package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ardnew/usbdesc/schema"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the descriptor kinds a definition can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tCHILDREN\tDESCRIPTION")
			for _, k := range schema.Kinds() {
				children := "no"
				if k.Container() {
					children = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k, children, k.Summary())
			}
			return tw.Flush()
		},
	}
}
