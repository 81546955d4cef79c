// This program runs an MCP server that exposes a trained tokenizer to MCP
// clients. The tools allow a model to encode text, decode token ids and
// inspect the vocabulary. The tokenizer is restored from a snapshot file
// at startup.
//
// # Running the server:
//
//	$ go run ./cmd/mcp -model model.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/ardanlabs/subword/foundation/bpe"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	tok *bpe.Tokenizer

	// The tokenizer is not safe for concurrent tool calls.
	mu sync.Mutex
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	model := flag.String("model", "model.json", "snapshot file to serve")
	host := flag.String("host", "localhost:8090", "host to listen on")
	flag.Parse()

	data, err := os.ReadFile(*model)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	var snapshot bpe.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshal model: %w", err)
	}

	tok = bpe.New()
	if err := tok.Restore(snapshot); err != nil {
		return fmt.Errorf("restore model: %w", err)
	}

	fmt.Printf("Server: tokenizer MCP server serving at %s\n", *host)

	tokenizer := mcp.NewServer(&mcp.Implementation{Name: "tokenizer", Version: "v1.0.0"}, nil)

	f := func(request *http.Request) *mcp.Server {
		url := request.URL.Path

		switch url {
		case RegisterEncodeTextTool(tokenizer),
			RegisterDecodeTokensTool(tokenizer),
			RegisterVocabStatsTool(tokenizer):
			return tokenizer

		default:
			return mcp.NewServer(&mcp.Implementation{Name: "unknown_tool", Version: "v1.0.0"}, nil)
		}
	}

	handler := mcp.NewSSEHandler(f, &mcp.SSEOptions{})

	return http.ListenAndServe(*host, handler)
}

// =============================================================================

// RegisterEncodeTextTool registers the encode_text tool with the given MCP server.
func RegisterEncodeTextTool(mcpServer *mcp.Server) string {
	const toolName = "tool_encode_text"
	const toolDescription = "Encode text into subword token ids using the trained tokenizer vocabulary. Returns the ids and the token string for each id."

	mcp.AddTool(mcpServer, &mcp.Tool{Name: toolName, Description: toolDescription}, EncodeTextHandler)

	return "/" + toolName
}

// EncodeTextToolParams represents the parameters for this tool call.
type EncodeTextToolParams struct {
	Text             string `json:"text" jsonschema:"The text to encode."`
	AddSpecialTokens bool   `json:"add_special_tokens" jsonschema:"When true, wrap the sequence in BOS and EOS tokens."`
}

// EncodeTextHandler encodes text into token ids.
func EncodeTextHandler(ctx context.Context, req *mcp.CallToolRequest, params EncodeTextToolParams) (*mcp.CallToolResult, any, error) {
	mu.Lock()
	ids := tok.Encode(params.Text, params.AddSpecialTokens)
	tokens := tok.Tokens(ids)
	mu.Unlock()

	info := struct {
		IDs    []int    `json:"ids"`
		Tokens []string `json:"tokens"`
	}{
		IDs:    ids,
		Tokens: tokens,
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: string(data),
		}},
	}, nil, nil
}

// =============================================================================

// RegisterDecodeTokensTool registers the decode_tokens tool with the given MCP server.
func RegisterDecodeTokensTool(mcpServer *mcp.Server) string {
	const toolName = "tool_decode_tokens"
	const toolDescription = "Decode a sequence of subword token ids back into text. Unknown ids are dropped."

	mcp.AddTool(mcpServer, &mcp.Tool{Name: toolName, Description: toolDescription}, DecodeTokensHandler)

	return "/" + toolName
}

// DecodeTokensToolParams represents the parameters for this tool call.
type DecodeTokensToolParams struct {
	IDs               []int `json:"ids" jsonschema:"The token ids to decode."`
	SkipSpecialTokens bool  `json:"skip_special_tokens" jsonschema:"When true, special tokens are dropped from the output."`
}

// DecodeTokensHandler decodes token ids back into text.
func DecodeTokensHandler(ctx context.Context, req *mcp.CallToolRequest, params DecodeTokensToolParams) (*mcp.CallToolResult, any, error) {
	mu.Lock()
	text := tok.Decode(params.IDs, params.SkipSpecialTokens)
	mu.Unlock()

	info := struct {
		Text string `json:"text"`
	}{
		Text: text,
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: string(data),
		}},
	}, nil, nil
}

// =============================================================================

// RegisterVocabStatsTool registers the vocab_stats tool with the given MCP server.
func RegisterVocabStatsTool(mcpServer *mcp.Server) string {
	const toolName = "tool_vocab_stats"
	const toolDescription = "Report the size and composition of the tokenizer vocabulary and merge table."

	mcp.AddTool(mcpServer, &mcp.Tool{Name: toolName, Description: toolDescription}, VocabStatsHandler)

	return "/" + toolName
}

// VocabStatsToolParams represents the parameters for this tool call.
type VocabStatsToolParams struct{}

// VocabStatsHandler reports vocabulary statistics.
func VocabStatsHandler(ctx context.Context, req *mcp.CallToolRequest, params VocabStatsToolParams) (*mcp.CallToolResult, any, error) {
	mu.Lock()
	stats := tok.Stats()
	mu.Unlock()

	data, err := json.Marshal(stats)
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: string(data),
		}},
	}, nil, nil
}
