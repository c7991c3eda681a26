package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var itemCmd = &cobra.Command{
	Use:   "item <barcode>",
	Short: "Find the item with a barcode and its record",
	Long: `Item searches the catalog for the record holding the item with the
given barcode and prints the item together with a summary of its record.`,
	Args: cobra.ExactArgs(1),
	RunE: runItem,
}

func runItem(cmd *cobra.Command, args []string) error {
	client, closeClient, err := newClient()
	if err != nil {
		return err
	}
	defer closeClient()

	item, err := client.LookupByBarcode(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), viper.GetString("format"), newItemView(item), func(w io.Writer) error {
		return writeItemText(w, item)
	})
}

func init() {
	rootCmd.AddCommand(itemCmd)
}
