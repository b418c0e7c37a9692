package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Describe a stored dataset",
		Long: `The info command prints the datatype, extents, member layout and
storage pipeline of a dataset.

Example:
  hdfobj info grid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args)
		},
	}
}

func runInfo(out io.Writer, args []string) error {
	return withEnv(func(e *env) error {
		rec, err := e.store.Describe(args[0])
		if err != nil {
			return err
		}
		dt, err := rec.Datatype()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Name: %s\n", rec.Name)
		fmt.Fprintf(out, "Type: %s\n", dt.Description())
		fmt.Fprintf(out, "Element size: %d\n", dt.ElementSize())
		fmt.Fprintf(out, "Dims: %v\n", rec.Dims)
		if members := dt.FlatMembers(); len(members) > 0 {
			fmt.Fprintf(out, "Members:\n")
			for _, m := range members {
				fmt.Fprintf(out, "  %s: %s\n", m.Path, m.Type.Description())
			}
		}
		names := make([]string, len(rec.Filters))
		for i, f := range rec.Filters {
			names[i] = f.Name
			if len(f.Params) > 0 {
				names[i] += fmt.Sprint(f.Params)
			}
		}
		if len(names) == 0 {
			names = []string{"none"}
		}
		fmt.Fprintf(out, "Filters: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(out, "Stored: %d of %d bytes\n", rec.Stored, rec.Size)
		return nil
	})
}
