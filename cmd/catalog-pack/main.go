// Command catalog-pack validates a JSON product catalog and compresses it
// into the gzip form embedded by the server.
//
// Usage:
//
//	catalog-pack -in internal/catalog/data/catalog.json -out internal/catalog/data/catalog.json.gz
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/stylehub/storefront/internal/catalog"
)

func main() {
	in := flag.String("in", "internal/catalog/data/catalog.json", "input catalog JSON")
	out := flag.String("out", "internal/catalog/data/catalog.json.gz", "output gzip file")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		slog.Error("catalog-pack failed", "err", err)
		os.Exit(1)
	}
}

func run(in, out string) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	// Decode first so a malformed catalog never reaches the embed.
	products, err := catalog.Decode(raw)
	if err != nil {
		return errors.Wrap(err, "validate catalog")
	}
	if len(products) == 0 {
		return errors.New("catalog is empty")
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	w, err := pgzip.NewWriterLevel(f, pgzip.BestCompression)
	if err != nil {
		return errors.Wrap(err, "create gzip writer")
	}
	if _, err := w.Write(raw); err != nil {
		return errors.Wrap(err, "compress")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "flush gzip")
	}

	fmt.Printf("packed %d products: %s -> %s\n", len(products), in, out)
	return nil
}
