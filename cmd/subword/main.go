// This program provides a command line interface for the subword tokenizer.
// It can train a tokenizer on a text file or a directory of text files,
// encode and decode text, show vocabulary statistics, and move snapshots
// in and out of a running tokenizer service.
//
// # Training a model locally:
//
//	$ go run ./cmd/subword train -corpus zarf/data -target 2000 -model model.json
//
// # Encoding against the local model:
//
//	$ go run ./cmd/subword encode -model model.json -text "hello world"
//
// # Working against a running service instead of a local model file:
//
//	$ go run ./cmd/subword train -url http://localhost:8080 -corpus zarf/data -target 2000
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/ardanlabs/subword/foundation/client"
	"github.com/ardanlabs/subword/foundation/corpus"
	"github.com/ardanlabs/subword/foundation/vector"
	"github.com/schollz/progressbar/v3"
)

const usage = `Usage:
	subword train      -corpus <file|dir> -target <n> [-model <file>] [-url <host>]
	subword encode     -text <text> [-specials] [-model <file>] [-url <host>]
	subword decode     -ids <id,id,...> [-keep-specials] [-model <file>] [-url <host>]
	subword stats      [-model <file>] [-url <host>]
	subword similarity -a <text> -b <text> [-model <file>] [-url <host>]
	subword export     -url <host> -model <file>
	subword import     -url <host> -model <file>`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return fmt.Errorf("missing command")
	}

	switch os.Args[1] {
	case "train":
		return train(os.Args[2:])
	case "encode":
		return encode(os.Args[2:])
	case "decode":
		return decode(os.Args[2:])
	case "stats":
		return stats(os.Args[2:])
	case "similarity":
		return similarity(os.Args[2:])
	case "export":
		return exportSnapshot(os.Args[2:])
	case "import":
		return importSnapshot(os.Args[2:])
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func train(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	corpusPath := fs.String("corpus", "", "text file or directory of .txt files")
	target := fs.Int("target", 1000, "target vocabulary size")
	model := fs.String("model", "model.json", "snapshot file to write")
	url := fs.String("url", "", "tokenizer service host, trains remotely when set")
	fs.Parse(args)

	if *corpusPath == "" {
		return fmt.Errorf("train: -corpus is required")
	}

	text, err := loadCorpus(*corpusPath)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Printf("training: corpus[%d bytes] target[%d]\n", len(text), *target)

	if *url != "" {
		return trainRemote(*url, text, *target)
	}

	tok := bpe.New()

	bar := trainBar(*target)
	tok.Progress = func(status bpe.TrainStatus) {
		bar.Set(status.VocabSize)
	}

	if err := tok.Train(text, *target); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	bar.Finish()
	fmt.Println()

	data, err := json.MarshalIndent(tok.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("train: marshal snapshot: %w", err)
	}

	if err := os.WriteFile(*model, data, 0644); err != nil {
		return fmt.Errorf("train: write model: %w", err)
	}

	printStats(tok.Stats())
	fmt.Printf("model written to %s\n", *model)

	return nil
}

func trainRemote(url string, text string, target int) error {
	tok := client.NewTokenizer(url)

	ch := make(chan client.TrainEvent, 100)

	ctx := context.Background()

	if err := tok.Train(ctx, text, target, ch); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	var bar *progressbar.ProgressBar

	for ev := range ch {
		if ev.Error != "" {
			return fmt.Errorf("train: %s", ev.Error)
		}

		if ev.Done {
			if bar != nil {
				bar.Finish()
				fmt.Println()
			}
			if ev.Stats != nil {
				printStats(*ev.Stats)
			}
			return nil
		}

		if bar == nil {
			bar = trainBar(ev.Status.TargetSize)
		}
		bar.Set(ev.Status.VocabSize)
	}

	return nil
}

func encode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	text := fs.String("text", "", "text to encode")
	specials := fs.Bool("specials", false, "wrap the sequence in BOS/EOS")
	model := fs.String("model", "model.json", "snapshot file to read")
	url := fs.String("url", "", "tokenizer service host, encodes remotely when set")
	fs.Parse(args)

	if *url != "" {
		tok := client.NewTokenizer(*url)

		resp, err := tok.Encode(context.Background(), *text, *specials)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}

		printEncoding(resp.IDs, resp.Tokens)
		return nil
	}

	tok, err := loadModel(*model)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	ids := tok.Encode(*text, *specials)
	printEncoding(ids, tok.Tokens(ids))

	return nil
}

func decode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	idsArg := fs.String("ids", "", "comma separated token ids")
	keep := fs.Bool("keep-specials", false, "keep special tokens in the output")
	model := fs.String("model", "model.json", "snapshot file to read")
	url := fs.String("url", "", "tokenizer service host, decodes remotely when set")
	fs.Parse(args)

	ids, err := parseIDs(*idsArg)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	var text string

	switch {
	case *url != "":
		tok := client.NewTokenizer(*url)

		text, err = tok.Decode(context.Background(), ids, !*keep)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}

	default:
		tok, err := loadModel(*model)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}

		text = tok.Decode(ids, !*keep)
	}

	fmt.Println(text)

	return nil
}

func stats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	model := fs.String("model", "model.json", "snapshot file to read")
	url := fs.String("url", "", "tokenizer service host, queried when set")
	fs.Parse(args)

	var s bpe.Stats

	switch {
	case *url != "":
		tok := client.NewTokenizer(*url)

		var err error
		s, err = tok.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}

	default:
		tok, err := loadModel(*model)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}

		s = tok.Stats()
	}

	printStats(s)

	return nil
}

func similarity(args []string) error {
	fs := flag.NewFlagSet("similarity", flag.ExitOnError)
	textA := fs.String("a", "", "first text")
	textB := fs.String("b", "", "second text")
	model := fs.String("model", "model.json", "snapshot file to read")
	url := fs.String("url", "", "tokenizer service host, queried when set")
	fs.Parse(args)

	var sim float64

	switch {
	case *url != "":
		tok := client.NewTokenizer(*url)

		var err error
		sim, err = tok.Similarity(context.Background(), *textA, *textB)
		if err != nil {
			return fmt.Errorf("similarity: %w", err)
		}

	default:
		tok, err := loadModel(*model)
		if err != nil {
			return fmt.Errorf("similarity: %w", err)
		}

		size := tok.Stats().TotalVocabSize
		fa := vector.NewFrequencies(tok.Encode(*textA, false), size)
		fb := vector.NewFrequencies(tok.Encode(*textB, false), size)
		sim = vector.CosineSimilarity(fa.Vector(), fb.Vector())
	}

	fmt.Printf("similarity: %.6f\n", sim)

	return nil
}

func exportSnapshot(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	url := fs.String("url", "", "tokenizer service host")
	model := fs.String("model", "model.json", "snapshot file to write")
	fs.Parse(args)

	if *url == "" {
		return fmt.Errorf("export: -url is required")
	}

	tok := client.NewTokenizer(*url)

	snapshot, err := tok.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal snapshot: %w", err)
	}

	if err := os.WriteFile(*model, data, 0644); err != nil {
		return fmt.Errorf("export: write model: %w", err)
	}

	fmt.Printf("snapshot written to %s\n", *model)

	return nil
}

func importSnapshot(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	url := fs.String("url", "", "tokenizer service host")
	model := fs.String("model", "model.json", "snapshot file to read")
	fs.Parse(args)

	if *url == "" {
		return fmt.Errorf("import: -url is required")
	}

	data, err := os.ReadFile(*model)
	if err != nil {
		return fmt.Errorf("import: read model: %w", err)
	}

	var snapshot bpe.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("import: unmarshal model: %w", err)
	}

	tok := client.NewTokenizer(*url)

	if err := tok.Restore(context.Background(), snapshot); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("snapshot %s imported\n", *model)

	return nil
}

// =============================================================================

func loadCorpus(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat corpus: %w", err)
	}

	if info.IsDir() {
		return corpus.LoadDir(context.Background(), path)
	}

	text, err := corpus.ConvertDocument(path)
	if err != nil {
		return "", fmt.Errorf("convert corpus: %w", err)
	}

	return text, nil
}

func loadModel(path string) (*bpe.Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var snapshot bpe.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}

	tok := bpe.New()
	if err := tok.Restore(snapshot); err != nil {
		return nil, fmt.Errorf("restore model: %w", err)
	}

	return tok, nil
}

func parseIDs(arg string) ([]int, error) {
	parts := strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == ' '
	})

	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func trainBar(target int) *progressbar.ProgressBar {
	return progressbar.NewOptions(target,
		progressbar.OptionSetDescription("learning merges"),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
	)
}

func printEncoding(ids []int, tokens []string) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}

	fmt.Printf("ids   : [%s]\n", strings.Join(strIDs, " "))
	fmt.Printf("tokens: [%s]\n", strings.Join(tokens, " "))
}

func printStats(s bpe.Stats) {
	fmt.Printf("total vocab size : %d\n", s.TotalVocabSize)
	fmt.Printf("special tokens   : %d\n", s.SpecialTokenCount)
	fmt.Printf("regular tokens   : %d\n", s.RegularTokenCount)
	fmt.Printf("merge rules      : %d\n", s.MergeRuleCount)
}
