package topology

import (
	"fmt"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/pkg/types"
)

// tokenTable maps power-state-group tokens to sequential table indices.
// First-seen order is preserved; lookups probe linearly, which is fine for
// the small group counts bounded by the hierarchy record count.
type tokenTable struct {
	tokens []types.Token
	limit  int
}

func newTokenTable(limit int) *tokenTable {
	if limit > aml.MaxNameIndex {
		limit = aml.MaxNameIndex
	}
	return &tokenTable{limit: limit}
}

// add returns the index of tok, inserting it at the next free slot when
// unseen. The table is bounded; running out of slots is an exhaustion
// error.
func (t *tokenTable) add(tok types.Token) (int, error) {
	for i, seen := range t.tokens {
		if seen == tok {
			return i, nil
		}
	}
	if len(t.tokens) >= t.limit {
		return 0, &types.Error{
			Kind: types.ErrKindExhausted,
			Msg:  fmt.Sprintf("token table: %d entries exceed limit %d", len(t.tokens)+1, t.limit),
		}
	}
	t.tokens = append(t.tokens, tok)
	return len(t.tokens) - 1, nil
}

// len returns the number of distinct tokens seen so far.
func (t *tokenTable) len() int { return len(t.tokens) }
