package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/awdb-etl/internal/adapter/parquetfile"
	"github.com/couchcryptid/awdb-etl/internal/domain"
	"github.com/couchcryptid/awdb-etl/internal/table"
)

const (
	formatJSON    = "json"
	formatParquet = "parquet"
)

type options struct {
	format        string
	out           string
	referenceType string
	verbose       bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "awdbnorm <endpoint> [files...]",
		Short: "Normalize AWDB responses into a columnar table",
		Long: "Normalize AWDB REST API responses into a columnar table.\n\n" +
			"endpoint is one of: " + endpointNames() + ".\n" +
			"Reference types: " + strings.Join(domain.ReferenceTypes(), ", ") + ".",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(stderr, opts.verbose)
			err := runNormalize(stdin, stdout, logger, opts, args)
			if err != nil {
				logger.Error("normalize failed", "error", err)
			}
			return err
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or parquet")
	flags.StringVarP(&opts.out, "out", "o", "", "write output to this file instead of stdout")
	flags.StringVarP(&opts.referenceType, "reference-type", "r", "", "vocabulary to extract from reference-data documents")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pruned columns and other details")

	cmd.AddCommand(newValidateCmd(stdin, stdout, stderr, opts))
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level, NoColor: true}))
}

func endpointNames() string {
	names := make([]string, len(domain.Endpoints))
	for i, e := range domain.Endpoints {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func runNormalize(stdin io.Reader, stdout io.Writer, logger *slog.Logger, opts *options, args []string) error {
	if opts.format != formatJSON && opts.format != formatParquet {
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatJSON, formatParquet)
	}
	endpoint, err := domain.ParseEndpoint(args[0])
	if err != nil {
		return err
	}
	docs, err := readDocuments(stdin, args[1:])
	if err != nil {
		return err
	}

	if endpoint == domain.EndpointReference && !domain.IsReferenceType(opts.referenceType) {
		logger.Warn("unknown reference type, output is empty", "reference_type", opts.referenceType)
	}

	res, err := domain.Normalize(domain.Request{
		Endpoint:      endpoint,
		ReferenceType: opts.referenceType,
		Documents:     docs,
	})
	if err != nil {
		return err
	}
	logger.Debug("normalized",
		"endpoint", endpoint,
		"documents", len(docs),
		"rows", res.Table.NumRows(),
		"columns", res.Table.NumCols(),
		"pruned", res.Dropped,
	)

	return writeOutput(stdout, opts, res.Table)
}

// readDocuments reads each named file as one document, or stdin when paths is
// empty. "-" also names stdin.
func readDocuments(stdin io.Reader, paths []string) ([][]byte, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	docs := make([][]byte, 0, len(paths))
	for _, p := range paths {
		var (
			data []byte
			err  error
		)
		if p == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, data)
	}
	return docs, nil
}

func writeOutput(stdout io.Writer, opts *options, t *table.Table) (err error) {
	w := stdout
	if opts.out != "" {
		f, cerr := os.Create(opts.out)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if opts.format == formatParquet {
		if err := parquetfile.Write(w, t); err != nil {
			if errors.Is(err, parquetfile.ErrNoColumns) {
				return fmt.Errorf("nothing to write: every column was empty (%w)", err)
			}
			return err
		}
		return nil
	}
	return json.NewEncoder(w).Encode(t)
}
