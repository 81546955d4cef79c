// Package corpus provides support for loading and preparing training text
// from files and documents.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/dlclark/regexp2"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds the number of files read at the same time when
// loading a directory.
const maxConcurrentReads = 8

// sentencePattern splits text into sentences. The lookbehind keeps the
// terminating punctuation attached to its sentence, which the standard
// library regexp engine cannot express.
var sentencePattern = regexp2.MustCompile(`.+?(?<=[.!?])(?=\s)|.+$`, regexp2.Singleline)

// LoadDir reads every .txt file under dir, walking subdirectories, and
// returns the combined text in path order. Files are read concurrently.
func LoadDir(ctx context.Context, dir string) (string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".txt") {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)

	texts := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			texts[i] = string(data)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(texts, "\n"), nil
}

// ConvertDocument extracts plain text from a document on disk. PDF and docx
// go through docconv; anything else is read as-is.
func ConvertDocument(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		input, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open file: %w", err)
		}
		defer input.Close()

		doc, _, err := docconv.ConvertPDF(input)
		if err != nil {
			return "", fmt.Errorf("convert pdf: %w", err)
		}

		return doc, nil

	case ".docx":
		input, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open file: %w", err)
		}
		defer input.Close()

		doc, _, err := docconv.ConvertDocx(input)
		if err != nil {
			return "", fmt.Errorf("convert docx: %w", err)
		}

		return doc, nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}

		return string(data), nil
	}
}

// Sentences splits text into sentences, keeping punctuation attached.
func Sentences(text string) []string {
	var sentences []string

	m, _ := sentencePattern.FindStringMatch(text)
	for m != nil {
		if s := strings.TrimSpace(m.String()); s != "" {
			sentences = append(sentences, s)
		}

		m, _ = sentencePattern.FindNextMatch(m)
	}

	return sentences
}

// Chunks groups the text's sentences into chunks of at most maxWords words.
// A single sentence longer than maxWords is split on word boundaries.
func Chunks(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = 250
	}

	var chunks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
		}
	}

	for _, sentence := range Sentences(text) {
		words := strings.Fields(sentence)

		for len(words) > maxWords {
			flush()
			chunks = append(chunks, strings.Join(words[:maxWords], " "))
			words = words[maxWords:]
		}

		if len(current)+len(words) > maxWords {
			flush()
		}

		current = append(current, words...)
	}

	flush()

	return chunks
}
