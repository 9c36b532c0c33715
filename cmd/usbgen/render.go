package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
	"github.com/ardnew/usbdesc/pkg/usbid"
	"github.com/ardnew/usbdesc/schema"
)

// Output formats.
const (
	formatText = "text"
	formatC    = "c"
	formatHex  = "hex"
	formatBin  = "bin"
)

type renderFlags struct {
	format string
	output string
	usbIDs string
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render DEFINITION",
		Short: "Render a descriptor definition",
		Long: `Render loads a .toml, .yaml or .yml definition, builds every top-level
descriptor and writes them in the selected format.

With --usb-ids, device vendor and product labels are annotated with the
names registered in a usb.ids database; "auto" searches the standard
system locations and continues without names if none is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(flags.format); err != nil {
				return err
			}
			b, err := newBuilder(flags.usbIDs)
			if err != nil {
				return err
			}
			tree, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			roots, err := tree.Build(b)
			if err != nil {
				return err
			}

			if flags.output == "" {
				if err := render(cmd.OutOrStdout(), roots, flags.format); err != nil {
					return err
				}
			} else if err := renderFile(flags.output, roots, flags.format); err != nil {
				return err
			}
			pkg.LogInfo(pkg.ComponentCLI, "rendered definition",
				"source", args[0], "format", flags.format, "descriptors", len(roots))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text|c|hex|bin")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&flags.usbIDs, "usb-ids", "", `usb.ids database path, or "auto"`)
	return cmd
}

// renderFile renders roots into a new file at path. A failed close is
// reported, since buffered data may not have reached the file.
func renderFile(path string, roots []schema.Root, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render(f, roots, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatC, formatHex, formatBin:
		return nil
	}
	return fmt.Errorf("output format %q: %w", format, pkg.ErrUnsupportedFormat)
}

// newBuilder returns a builder annotated from the usb.ids database at
// path. An empty path disables names.
func newBuilder(path string) (*schema.Builder, error) {
	if path == "" {
		return &schema.Builder{}, nil
	}

	var db *usbid.Database
	if path == "auto" {
		db = usbid.New()
	} else {
		db = usbid.New(path)
	}
	loaded, err := db.Load()
	if path == "auto" && errors.Is(err, fs.ErrNotExist) {
		pkg.LogWarn(pkg.ComponentUSBID, "usb.ids database not found, continuing without names")
		return &schema.Builder{}, nil
	}
	if err != nil {
		return nil, err
	}
	pkg.LogInfo(pkg.ComponentUSBID, "using usb.ids database", "path", loaded, "vendors", db.VendorCount())
	return &schema.Builder{Names: db}, nil
}

// render writes roots to w in format.
func render(w io.Writer, roots []schema.Root, format string) error {
	bw := bufio.NewWriter(w)
	for i, root := range roots {
		var err error
		switch format {
		case formatText:
			err = renderText(bw, i, root)
		case formatC:
			err = renderC(bw, i, root)
		case formatHex:
			err = renderHex(bw, i, root)
		case formatBin:
			err = renderBin(bw, root)
		default:
			err = checkFormat(format)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", root.Name, err)
		}
	}
	return bw.Flush()
}

func renderText(w io.Writer, i int, root schema.Root) error {
	if i > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "/* %s: %s */\n", root.Name, descriptor.TypeName(root.Node.Type()))
	return descriptor.WriteText(w, root.Node)
}

func renderC(w io.Writer, i int, root schema.Root) error {
	if i > 0 {
		fmt.Fprintln(w)
	}
	return descriptor.WriteC(w, root.Name, root.Node)
}

func renderHex(w io.Writer, i int, root schema.Root) error {
	b, err := descriptor.Bytes(root.Node)
	if err != nil {
		return err
	}
	if i > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "# %s (%d bytes)\n", root.Name, len(b))
	dumper := hex.Dumper(w)
	if _, err := dumper.Write(b); err != nil {
		return err
	}
	return dumper.Close()
}

func renderBin(w io.Writer, root schema.Root) error {
	b, err := descriptor.Bytes(root.Node)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
