package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/metadata"
)

var (
	kind       = flag.String("kind", string(domain.MetadataKindGame), "Metadata kind: game or contract")
	schemaPath = flag.String("schema", "", "Path to a game metadata schema overriding the built-in one")
	file       = flag.String("file", "", "Path to the metadata document; stdin when empty")
	canonical  = flag.Bool("canonical", false, "Also print the canonical form of the document")
)

// metadata-hash validates a metadata document and prints the hash a
// publisher commits to on chain
func main() {
	flag.Parse()

	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "metadata-hash: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	metadataKind := domain.MetadataKind(*kind)
	if !domain.IsValidMetadataKind(metadataKind) {
		return fmt.Errorf("unknown metadata kind %q", *kind)
	}

	fs := adapter.NewFileSystem()

	schemas := metadata.DefaultSchemas()
	if *schemaPath != "" {
		var err error
		schemas, err = metadata.LoadSchemas(fs, *schemaPath)
		if err != nil {
			return err
		}
	}
	validator, err := metadata.NewValidator(schemas)
	if err != nil {
		return err
	}

	var doc []byte
	if *file != "" {
		doc, err = fs.ReadFile(*file)
	} else {
		doc, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	prepared, err := metadata.Prepare(validator, metadata.NewHasher(adapter.NewJCS()), metadataKind, doc)
	if err != nil {
		return err
	}

	if *canonical {
		fmt.Fprintln(out, string(prepared.Canonical))
	}
	fmt.Fprintln(out, prepared.Hash.Hex())
	return nil
}
