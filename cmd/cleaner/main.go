// This program takes a document (pdf, docx or plain text) and produces a
// cleaned training corpus for the tokenizer. The document is converted to
// text, split into sentences and regrouped into chunks of bounded size,
// one chunk per line. When a docling host is configured the conversion is
// delegated to that service, otherwise it happens locally.
//
// # Preparing a corpus:
//
//	$ go run ./cmd/cleaner -in book.pdf -out zarf/data/book.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/subword/foundation/corpus"
	"github.com/ardanlabs/subword/foundation/docling"
	"github.com/joho/godotenv"
)

var doclingHost = ""

func init() {
	godotenv.Load()

	if v := os.Getenv("DOCLING_HOST"); v != "" {
		doclingHost = v
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "document to convert")
	out := flag.String("out", "corpus.txt", "corpus file to write")
	maxWords := flag.Int("max-words", 250, "maximum words per chunk")
	flag.Parse()

	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	text, err := convert(*in)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	chunks := corpus.Chunks(text, *maxWords)

	output, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer output.Close()

	for _, chunk := range chunks {
		if _, err := fmt.Fprintln(output, strings.Join(strings.Fields(chunk), " ")); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}
	}

	fmt.Printf("cleaner: %d chunks written to %s\n", len(chunks), *out)

	return nil
}

func convert(path string) (string, error) {
	if doclingHost == "" {
		return corpus.ConvertDocument(path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	doc := docling.New(doclingHost)

	return doc.ConvertFile(ctx, path)
}
