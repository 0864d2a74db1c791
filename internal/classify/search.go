package classify

import (
	"fmt"
	"regexp"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cleared-dev/saldo/internal/model"
)

// Query selects records whose fields contain a keyword.
type Query struct {
	Keyword string
	Fields  []string // defaults to usage
	Fuzzy   bool     // subsequence match instead of a regular expression
}

// Search returns the matching records in ledger order and the sum of their
// values.
func Search(txs []model.Transaction, q Query) ([]model.Transaction, int64, error) {
	fields := q.Fields
	if len(fields) == 0 {
		fields = []string{"usage"}
	}
	for _, f := range fields {
		if _, ok := (model.Transaction{}).Field(f); !ok {
			return nil, 0, fmt.Errorf("unknown field %q", f)
		}
	}

	match := func(text string) bool { return fuzzy.MatchNormalizedFold(q.Keyword, text) }
	if !q.Fuzzy {
		re, err := regexp.Compile("(?i)" + q.Keyword)
		if err != nil {
			return nil, 0, fmt.Errorf("compiling keyword: %w", err)
		}
		match = re.MatchString
	}

	var out []model.Transaction
	var sum int64
	for _, tx := range txs {
		for _, f := range fields {
			text, _ := tx.Field(f)
			if match(text) {
				out = append(out, tx)
				sum += tx.Value
				break
			}
		}
	}
	return out, sum, nil
}
