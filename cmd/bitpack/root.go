package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bitfield/config"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/schema"
)

type options struct {
	logLevel string
	logFile  string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bitpack",
		Short:         "Inspect and convert packed bit-field records",
		Long:          `bitpack reads a record schema file and prints its layout, encodes field values to packed bytes, decodes packed bytes, or edits a record interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the schema file")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also log to this file with rotation; overrides the schema file")

	rootCmd.AddCommand(
		newLayoutCommand(opts),
		newEncodeCommand(opts),
		newDecodeCommand(opts),
		newInspectCommand(opts),
	)
	return rootCmd
}

// loadType reads a schema file and builds its record type with a logger
// configured from the file and the command-line overrides.
func loadType(opts *options, path string) (*schema.Type, *zap.Logger, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	logCfg := f.Log
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.logFile != "" {
		logCfg.File = opts.logFile
	}
	logger, err := config.NewLogger(logCfg)
	if err != nil {
		return nil, nil, err
	}
	layout.SetLogger(logger.Named("layout"))
	schema.SetLogger(logger.Named("schema"))

	typ, err := f.Type(schema.WithCompiler(layout.NewCompiler()))
	if err != nil {
		return nil, logger, fmt.Errorf("schema %s: %w", path, err)
	}
	logger.Debug("schema loaded", zap.String("path", path), zap.String("type", typ.Name()))
	return typ, logger, nil
}

func newLayoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <schema>",
		Short: "Print field offsets and widths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _, err := loadType(opts, args[0])
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), typ)
			return nil
		},
	}
}

func printLayout(w io.Writer, typ *schema.Type) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Kind", "Bits", "Offset", "Bytes", "Container"})
	for _, f := range typ.Fields() {
		bytes := strconv.Itoa(f.Begin)
		if f.End != f.Begin {
			bytes += "-" + strconv.Itoa(f.End)
		}
		table.Append([]string{
			f.Name,
			f.Kind.String(),
			strconv.Itoa(f.Bits),
			strconv.Itoa(f.Offset),
			bytes,
			f.Container.String(),
		})
	}
	table.Render()
	fmt.Fprintf(w, "%s: %d bits, %d bytes\n", typ.Name(), typ.TotalBits(), typ.Size())
}

func newEncodeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <schema> [field=value...]",
		Short: "Pack field values into hex bytes",
		Long:  `Start from a zeroed record, apply each field=value assignment in order and print the packed bytes as hex. Values may be decimal, 0x/0b/0o prefixed, true/false or enum variant names.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _, err := loadType(opts, args[0])
			if err != nil {
				return err
			}
			r := typ.New()
			for _, a := range args[1:] {
				name, value, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("assignment %q: want field=value", a)
				}
				if err := r.Parse(name, value); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(r.Bytes()))
			return nil
		},
	}
}

func newDecodeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <schema> <hex>",
		Short: "Unpack hex bytes into field values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _, err := loadType(opts, args[0])
			if err != nil {
				return err
			}
			data, err := parseHex(args[1])
			if err != nil {
				return err
			}
			r, err := typ.FromBytes(data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range typ.Fields() {
				v, err := r.Value(f.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s = %v\n", f.Name, v)
			}
			return nil
		},
	}
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.ReplaceAll(s, " ", "")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return data, nil
}

func newInspectCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <schema> [hex]",
		Short: "Edit a record interactively",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("inspect needs an interactive terminal")
			}
			typ, logger, err := loadType(opts, args[0])
			if err != nil {
				return err
			}
			r := typ.New()
			if len(args) == 2 {
				data, err := parseHex(args[1])
				if err != nil {
					return err
				}
				if r, err = typ.FromBytes(data); err != nil {
					return err
				}
			}
			return runInspect(r, logger)
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
