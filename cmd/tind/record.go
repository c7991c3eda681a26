// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tind-client/internal/csl"
	"github.com/pdiddy/tind-client/pkg/tind"
	"github.com/pdiddy/tind-client/pkg/types"
)

var recordCmd = &cobra.Command{
	Use:   "record [id...]",
	Short: "Look up catalog records by id or from MARC XML",
	Long: `Record looks up one or more catalog records by numeric id and prints
each with its holdings. Several ids are looked up concurrently and printed
in the order given.

Records can be printed as citations with --format csl (CSL-YAML) or
--format csl-json, ready for Pandoc or a reference manager.

With --xml, the record is read from a MARC XML file exported from TIND
instead, and only its holdings are fetched from the server. --xml cannot
be combined with an id.`,
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	xmlFile, _ := cmd.Flags().GetString("xml")
	withThumb, _ := cmd.Flags().GetBool("thumbnail")
	format := viper.GetString("format")

	client, closeClient, err := newClient()
	if err != nil {
		return err
	}
	defer closeClient()
	ctx := cmd.Context()

	if xmlFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("%w: --xml cannot be combined with an id", types.ErrInvalidArgument)
		}
		data, err := os.ReadFile(xmlFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", xmlFile, err)
		}
		rec, err := client.Record(ctx, tind.RecordQuery{XML: data})
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), format, []*types.Record{rec})
	}

	if len(args) == 0 {
		return fmt.Errorf("%w: provide at least one record id or --xml", types.ErrInvalidArgument)
	}

	var (
		records []*types.Record
		errs    []error
	)
	for _, r := range client.LookupRecords(ctx, args) {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", r.ID, r.Err))
			continue
		}
		if withThumb {
			if _, err := client.Thumbnail(ctx, r.Record); err != nil {
				errs = append(errs, fmt.Errorf("thumbnail for %s: %w", r.ID, err))
			}
		}
		records = append(records, r.Record)
	}

	if err := printRecords(cmd.OutOrStdout(), format, records); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func printRecords(w io.Writer, format string, records []*types.Record) error {
	switch format {
	case "csl":
		return csl.WriteYAML(w, records)
	case "csl-json":
		return csl.WriteJSON(w, records)
	}

	var v any = records
	if len(records) == 1 {
		v = records[0]
	}
	return render(w, format, v, func(w io.Writer) error {
		for i, rec := range records {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeRecordText(w, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func init() {
	recordCmd.Flags().String("xml", "", "read the record from a MARC XML file instead of the server")
	recordCmd.Flags().Bool("thumbnail", false, "also resolve the cover thumbnail URL")

	rootCmd.AddCommand(recordCmd)
}
