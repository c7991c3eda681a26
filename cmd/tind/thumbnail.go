package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tind-client/internal/marc"
	"github.com/pdiddy/tind-client/pkg/types"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <id>",
	Short: "Print the cover image URL of a record",
	Long: `Thumbnail asks the server for the cover image it shows on the page of
the record with the given id. Nothing is printed when the record has none.`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbnail,
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	client, closeClient, err := newClient()
	if err != nil {
		return err
	}
	defer closeClient()

	if !marc.IsDigits(args[0]) {
		return fmt.Errorf("%w: %q is not a number", types.ErrInvalidArgument, args[0])
	}
	rec := types.NewRecord(client.ServerURL())
	rec.CatalogID = args[0]

	url, err := client.Thumbnail(cmd.Context(), rec)
	if err != nil {
		return err
	}
	out := struct {
		ID           string `json:"catalog_id" yaml:"catalog_id"`
		ThumbnailURL string `json:"thumbnail_url" yaml:"thumbnail_url"`
	}{rec.CatalogID, url}
	return render(cmd.OutOrStdout(), viper.GetString("format"), out, func(w io.Writer) error {
		if url == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, url)
		return err
	})
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
}
