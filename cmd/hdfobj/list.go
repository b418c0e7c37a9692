package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout())
		},
	}
}

func runList(out io.Writer) error {
	return withEnv(func(e *env) error {
		recs, err := e.store.List()
		if err != nil {
			return err
		}
		for _, rec := range recs {
			desc := "?"
			if dt, err := rec.Datatype(); err == nil {
				desc = dt.Description()
			}
			fmt.Fprintf(out, "%s\t%s\t%v\n", rec.Name, desc, rec.Dims)
		}
		return nil
	})
}
