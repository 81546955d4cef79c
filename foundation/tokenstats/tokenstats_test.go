// The SQL statements the store executes never come back from the database
// during unit testing, so we use vitess to prove they at least parse.
package tokenstats

import (
	"math"
	"testing"

	"github.com/ardanlabs/subword/foundation/bpe"
	"vitess.io/vitess/go/vt/sqlparser"
)

func TestStatementsParse(t *testing.T) {
	statements := map[string]string{
		"schema":     schemaSQL,
		"top tokens": topTokensSQL,
	}

	p := sqlparser.NewTestParser()

	for name, stmt := range statements {
		if _, err := p.Parse(stmt); err != nil {
			t.Errorf("bad SQL for %s: %v", name, err)
		}
	}
}

func TestCompareTexts(t *testing.T) {
	tok := bpe.New()
	if err := tok.Train("red fish blue fish old cat new cat", 60); err != nil {
		t.Fatalf("Train: %v", err)
	}

	if got := CompareTexts(tok, "red fish", "red fish"); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical texts similarity = %v, want 1", got)
	}

	same := CompareTexts(tok, "red fish", "blue fish")
	diff := CompareTexts(tok, "red fish", "new cat")

	if same <= diff {
		t.Errorf("similarity ordering wrong: shared-word %v <= disjoint %v", same, diff)
	}
}
