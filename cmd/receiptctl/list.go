package main

import (
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stemstr/skillgate/internal/receipts"
)

var (
	listDriver      string
	listDSN         string
	listLimit       int
	listUnfulfilled bool
)

func init() {
	listCmd.Flags().StringVarP(&listDriver, "driver", "", "sqlite", "receipts driver: sqlite or postgres")
	listCmd.Flags().StringVarP(&listDSN, "dsn", "", "", "receipts dsn: /path/to/receipts.db or postgres://...")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "max receipts to list, 0 for all")
	listCmd.Flags().BoolVarP(&listUnfulfilled, "unfulfilled", "", false, "only list payments that were settled but not fulfilled")

	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list settled payments from the receipt journal",
	RunE:  doList,
}

func doList(cmd *cobra.Command, args []string) error {
	if listDSN == "" {
		return fmt.Errorf("must provide --dsn")
	}

	backend, err := initBackend(listDriver, listDSN)
	if err != nil {
		return err
	}
	defer backend.Close()

	list, err := backend.List(cmd.Context(), receipts.ListOptions{
		Limit:           listLimit,
		UnfulfilledOnly: listUnfulfilled,
	})
	if err != nil {
		return fmt.Errorf("list receipts: %w", err)
	}

	if verbose {
		log.Printf("%d receipts from %s\n", len(list), listDriver)
	}

	return printReceipts(cmd.OutOrStdout(), list)
}

func printReceipts(out io.Writer, list []receipts.Receipt) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CREATED\tNAME\tTX\tFROM\tVALUE\tFULFILLED\n")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n",
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Name,
			r.TxHash,
			r.From,
			r.Value,
			r.Fulfilled,
		)
	}
	return tw.Flush()
}
