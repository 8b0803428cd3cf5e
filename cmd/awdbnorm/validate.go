package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/awdb-etl/internal/domain"
)

// newValidateCmd checks documents one by one without producing a table, so a
// failing file is reported alongside every other failure instead of aborting
// the batch.
func newValidateCmd(stdin io.Reader, stdout, stderr io.Writer, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <endpoint> [files...]",
		Short:         "Check that AWDB documents decode, one line per document",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(stdin, stdout, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.referenceType, "reference-type", "r", "", "vocabulary to check in reference-data documents")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func runValidate(stdin io.Reader, stdout io.Writer, opts *options, args []string) error {
	endpoint, err := domain.ParseEndpoint(args[0])
	if err != nil {
		return err
	}
	paths := args[1:]
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	failed := 0
	for _, p := range paths {
		docs, err := readDocuments(stdin, []string{p})
		if err == nil {
			var res domain.Result
			res, err = domain.Normalize(domain.Request{Endpoint: endpoint, ReferenceType: opts.referenceType, Documents: docs})
			if err == nil {
				fmt.Fprintf(stdout, "ok   %s rows=%d columns=%d\n", p, res.Table.NumRows(), res.Table.NumCols())
				continue
			}
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s: %v\n", p, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(paths))
	}
	return nil
}
