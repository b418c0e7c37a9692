package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robert-malhotra/go-hdfobject/internal/decode"
	"github.com/robert-malhotra/go-hdfobject/object"
)

var (
	showStart     []uint
	showCount     []uint
	showStride    []uint
	showMembers   []string
	showUnsigned  bool
	showImage     bool
	showDelimiter string
	showMaxItems  int
	showMaxChars  int
	showFormat    string
)

func init() {
	cmd := newShowCmd()
	cmd.Flags().UintSliceVar(&showStart, "start", nil, "Selection start per dimension")
	cmd.Flags().UintSliceVar(&showCount, "count", nil, "Selected element count per dimension")
	cmd.Flags().UintSliceVar(&showStride, "stride", nil, "Selection stride per dimension")
	cmd.Flags().StringSliceVarP(&showMembers, "members", "m", nil, "Compound members to decode (default all)")
	cmd.Flags().BoolVarP(&showUnsigned, "unsigned", "u", false, "Widen unsigned integers so they print as non-negative")
	cmd.Flags().BoolVar(&showImage, "image", false, "Use the image default selection")
	cmd.Flags().StringVar(&showDelimiter, "delimiter", "", "Value delimiter (default from configuration)")
	cmd.Flags().IntVar(&showMaxItems, "max-items", -1, "Maximum values to print (default from configuration)")
	cmd.Flags().IntVar(&showMaxChars, "max-chars", -1, "Maximum characters per string value (default from configuration)")
	cmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text or msgpack")
	rootCmd.AddCommand(cmd)
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Decode and print a selection of a dataset",
		Long: `The show command reads a strided selection of a dataset and prints the
decoded values. Dimensions without --start, --count or --stride keep the
default selection.

Example:
  hdfobj show grid
  hdfobj show grid --start 1,0 --count 2,3 --stride 2,2
  hdfobj show particles --members pos,mass --max-items 10
  hdfobj show grid --format msgpack > grid.msgpack`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.OutOrStdout(), args)
		},
	}
}

func runShow(out io.Writer, args []string) error {
	if showFormat != "text" && showFormat != "msgpack" {
		return fmt.Errorf("unknown format %q (want text or msgpack)", showFormat)
	}
	return withEnv(func(e *env) error {
		ds, err := e.store.Dataset(args[0], object.WithLogger(e.log), object.WithImage(showImage))
		if err != nil {
			return err
		}
		if err := applySelection(ds); err != nil {
			return err
		}
		if len(showMembers) > 0 {
			if err := ds.SelectMembers(showMembers...); err != nil {
				return err
			}
		}
		data, err := ds.Data()
		if err != nil {
			return err
		}
		if showUnsigned && !ds.IsCompound() {
			if data, err = ds.ConvertFromUnsigned(); err != nil {
				return err
			}
		}

		if showFormat == "msgpack" {
			return msgpack.NewEncoder(out).Encode(map[string]any{
				"name": ds.Name(),
				"dims": ds.SelectedDims(),
				"data": plain(data),
			})
		}
		opts := object.RenderOptions{
			Delimiter: e.conf.Render.Delimiter,
			MaxItems:  e.conf.Render.MaxItems,
			MaxChars:  e.conf.Render.MaxChars,
		}
		if showDelimiter != "" {
			opts.Delimiter = showDelimiter
		}
		if showMaxItems >= 0 {
			opts.MaxItems = showMaxItems
		}
		if showMaxChars >= 0 {
			opts.MaxChars = showMaxChars
		}
		text, err := ds.Render(opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	})
}

func applySelection(ds *object.Dataset) error {
	rank := ds.Rank()
	for flag, v := range map[string][]uint{"start": showStart, "count": showCount, "stride": showStride} {
		if len(v) > rank {
			return fmt.Errorf("--%s has %d values for a rank %d dataset", flag, len(v), rank)
		}
	}
	start, count, stride := ds.StartDims(), ds.SelectedDims(), ds.Stride()
	for i, v := range showStart {
		start[i] = uint64(v)
	}
	for i, v := range showCount {
		count[i] = uint64(v)
	}
	for i, v := range showStride {
		stride[i] = uint64(v)
	}
	return ds.Validate()
}

// plain turns compound columns into one []any per record.
func plain(data any) any {
	cols, ok := data.(*decode.Columns)
	if !ok {
		return data
	}
	rows := make([]any, cols.Len())
	for i := range rows {
		rows[i] = cols.Record(i)
	}
	return rows
}
