// Package parser turns boolean query strings into a flat plan of clauses
// that the executor folds strictly left to right.
//
// Grammar: terms separated by '&' (AND) or '|' (OR); a term prefixed by
// '-' is negated. Juxtaposed terms are joined with AND, an operator with no
// term before it is ignored, and of several consecutive operators the last
// one wins.
package parser

import (
	"strings"
	"unicode"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
)

type Operator int

const (
	OpAnd Operator = iota
	OpOr
)

func (o Operator) String() string {
	if o == OpOr {
		return "|"
	}
	return "&"
}

// Clause is one term of the plan with the operator joining it to the
// result so far. Op is meaningless on the first clause.
type Clause struct {
	Op      Operator
	Term    string
	Negated bool
}

type QueryPlan struct {
	Clauses  []Clause
	RawQuery string
}

// Terms returns the non-negated terms in query order.
func (p *QueryPlan) Terms() []string {
	terms := make([]string, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		if !c.Negated {
			terms = append(terms, c.Term)
		}
	}
	return terms
}

// String renders the plan in canonical form, e.g. "wolf & -lamb | fox".
func (p *QueryPlan) String() string {
	var b strings.Builder
	for i, c := range p.Clauses {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(c.Op.String())
			b.WriteByte(' ')
		}
		if c.Negated {
			b.WriteByte('-')
		}
		b.WriteString(c.Term)
	}
	return b.String()
}

func Parse(query string) *QueryPlan {
	plan := &QueryPlan{RawQuery: query}
	op := OpAnd
	negateNext := false
	for _, tok := range lex(query) {
		switch tok {
		case "&", "|":
			if len(plan.Clauses) == 0 {
				continue
			}
			if tok == "|" {
				op = OpOr
			} else {
				op = OpAnd
			}
			continue
		}
		negated := negateNext
		negateNext = false
		word := strings.TrimLeft(tok, "-")
		if len(word) < len(tok) {
			negated = true
		}
		if word == "" {
			negateNext = true
			continue
		}
		term := tokenizer.Clean(word)
		if term == "" {
			continue
		}
		plan.Clauses = append(plan.Clauses, Clause{Op: op, Term: term, Negated: negated})
		op = OpAnd
	}
	return plan
}

// lex splits on whitespace and emits '&' and '|' as tokens of their own.
func lex(query string) []string {
	var tokens []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, query[start:end])
			start = -1
		}
	}
	for i, r := range query {
		switch {
		case r == '&' || r == '|':
			flush(i)
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(query))
	return tokens
}
