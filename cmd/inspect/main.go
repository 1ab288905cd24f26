package main

import (
	"chat-relay/infrastructure/storage"
	"chat-relay/internal"
	"flag"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inspect terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	dbPath := flag.String("db", "", "path of the relay badger directory")
	prefix := flag.String("prefix", internal.DefaultInspectPrefix, "key prefix to list (message:, conversation:, profile:, pubkey:)")
	limit := flag.Int("limit", 200, "maximum number of records, 0 for all")
	flag.Parse()

	if *dbPath == "" {
		flag.Usage()
		return exitConfig, fmt.Errorf("-db is required")
	}

	// Read-only keeps the inspector usable next to a running relay snapshot.
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows := internal.ScanPrefix(db, *prefix, *limit, storage.Describe)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Entity", "Timestamp", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, row := range rows {
		table.Append([]string{row.Kind, row.EntityID, row.Timestamp, row.Detail})
	}
	table.Render()
	fmt.Printf("%d records under %q\n", len(rows), *prefix)

	return exitOK, nil
}
