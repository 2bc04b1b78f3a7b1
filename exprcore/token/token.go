// Package token implements lexical analysis for exprcore: scanning a UTF-8
// source string into a token stream using a caller-supplied operator table
// and literal matcher (spec §4.1, §4.2), then checking the structural
// preconditions that must hold before the deep tree builder runs.
package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"axion/exprcore/exerr"
	"axion/exprcore/operator"
)

// Kind tags the four token shapes from spec §3.
type Kind int

const (
	Literal Kind = iota
	Var
	Op
	ParenOpen
	ParenClose
)

// Token is a tagged variant over a literal numeric value's source text, a
// variable name (borrowed substring of the source), an operator index
// into the caller's table, or a parenthesis.
type Token struct {
	Kind    Kind
	Text    string // literal source text, or variable name
	OpIndex int    // valid when Kind == Op
}

// isIdentStart / isIdentCont implement the bare-variable regex from spec
// §4.1: [A-Za-zα-ωΑ-Ω_][A-Za-zα-ωΑ-Ω_0-9]*.
func isIdentStart(r rune) bool {
	if r == '_' {
		return true
	}
	if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
		return true
	}
	if r >= 'α' && r <= 'ω' {
		return true
	}
	if r >= 'Α' && r <= 'Ω' {
		return true
	}
	return false
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// identShapedOpContinuesAsIdent implements maximal munch for identifier-like
// operator reprs (spec §9's open question, resolved per the original's
// lib.rs: "sin4 is parsed as variable name, but sin 4 is equivalent to
// sin(4)"): an operator match such as "sin" or "PI" is only accepted as an
// operator token if the identifier run it matched doesn't continue past the
// match. If it does continue (e.g. matching "sin" inside "sin4"), the whole
// run belongs to a single bare variable name instead, exactly as the
// teacher's tokenizer reads a maximal word first and classifies it
// FUNCTION-vs-IDENT only afterward.
func identShapedOpContinuesAsIdent(rest string, n int) bool {
	r0, _ := utf8.DecodeRuneInString(rest)
	if !isIdentStart(r0) {
		return false
	}
	for _, r := range rest[:n] {
		if !isIdentCont(r) {
			return false
		}
	}
	if n >= len(rest) {
		return false
	}
	r2, _ := utf8.DecodeRuneInString(rest[n:])
	return isIdentCont(r2)
}

// Tokenize scans text left to right. At each position it tries, in order:
// whitespace (skipped), literal match, operator match (longest), braced
// variable, parenthesis, bare variable. Any unrecognized rune fails with a
// parse error naming the position.
func Tokenize[T any](text string, ops operator.Table[T], matchLiteral operator.LiteralMatcher) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(text) {
		rest := text[i:]

		if unicode.IsSpace(rune(rest[0])) {
			r, size := utf8.DecodeRuneInString(rest)
			if unicode.IsSpace(r) {
				i += size
				continue
			}
		}

		if n, ok := matchLiteral(rest); ok && n > 0 {
			toks = append(toks, Token{Kind: Literal, Text: rest[:n]})
			i += n
			continue
		}

		if idx, n, ok := ops.FindByRepr(rest); ok && !identShapedOpContinuesAsIdent(rest, n) {
			toks = append(toks, Token{Kind: Op, Text: rest[:n], OpIndex: idx})
			i += n
			continue
		}

		if rest[0] == '{' {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return nil, exerr.At(rest, "unterminated variable brace starting at byte %d", i)
			}
			name := rest[1:end]
			toks = append(toks, Token{Kind: Var, Text: name})
			i += end + 1
			continue
		}

		if rest[0] == '(' {
			toks = append(toks, Token{Kind: ParenOpen, Text: "("})
			i++
			continue
		}
		if rest[0] == ')' {
			toks = append(toks, Token{Kind: ParenClose, Text: ")"})
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(rest)
		if isIdentStart(r) {
			j := size
			for j < len(rest) {
				r2, size2 := utf8.DecodeRuneInString(rest[j:])
				if !isIdentCont(r2) {
					break
				}
				j += size2
			}
			toks = append(toks, Token{Kind: Var, Text: rest[:j]})
			i += j
			continue
		}

		return nil, exerr.At(string(r), "unrecognized character at byte position %d", i)
	}
	return toks, nil
}

// CheckStructure validates the preconditions from spec §4.2: the stream is
// non-empty, parentheses balance and nest correctly, no two
// literals/variables are adjacent without an intervening operator, every
// binary-only operator has a valid left neighbor, and every unary-only
// operator has a valid right neighbor.
func CheckStructure[T any](toks []Token, ops operator.Table[T]) error {
	if len(toks) == 0 {
		return exerr.New("empty token stream")
	}

	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case ParenOpen:
			depth++
		case ParenClose:
			depth--
			if depth < 0 {
				return exerr.At(")", "unbalanced parentheses: unmatched closing paren")
			}
		}
	}
	if depth != 0 {
		return exerr.New("unbalanced parentheses: %d unclosed", depth)
	}

	isOperand := func(t Token) bool {
		if t.Kind == Literal || t.Kind == Var || t.Kind == ParenClose {
			return true
		}
		return t.Kind == Op && ops[t.OpIndex].IsConst
	}

	for i, t := range toks {
		if t.Kind == Op && ops[t.OpIndex].IsConst {
			if i > 0 && isOperand(toks[i-1]) {
				return exerr.At(t.Text, "adjacent operands without an intervening operator")
			}
			continue
		}
		if t.Kind != Op {
			if (t.Kind == Literal || t.Kind == Var) && i > 0 && isOperand(toks[i-1]) {
				return exerr.At(t.Text, "adjacent operands without an intervening operator")
			}
			continue
		}
		op := ops[t.OpIndex]
		var leftOK, rightOK bool
		if i > 0 {
			leftOK = isOperand(toks[i-1])
		}
		if i+1 < len(toks) {
			next := toks[i+1]
			rightOK = next.Kind == Literal || next.Kind == Var || next.Kind == ParenOpen || next.Kind == Op
		}

		switch {
		case op.HasBin() && op.HasUnary():
			// Disambiguated later at build time; at minimum it needs
			// a neighbor on the side that will apply.
			if !leftOK && !rightOK {
				return exerr.At(t.Text, "operator has neither a valid left nor right neighbor")
			}
		case op.HasBin():
			if !leftOK {
				return exerr.At(t.Text, "binary operator lacks a valid left neighbor")
			}
			if !rightOK {
				return exerr.At(t.Text, "binary operator lacks a valid right neighbor")
			}
		case op.HasUnary():
			if !rightOK {
				return exerr.At(t.Text, "unary operator lacks a valid right neighbor")
			}
		}
	}
	return nil
}

// IsBinaryPosition implements the disambiguation rule from spec §4.3: an
// operator whose representation admits both shapes resolves to binary iff
// the preceding token is a literal, a variable, a closing paren, or a named
// constant operator.
func IsBinaryPosition[T any](op operator.Operator[T], prev *Token, ops operator.Table[T]) bool {
	if !op.HasBin() {
		return false
	}
	if !op.HasUnary() {
		return true
	}
	if prev == nil {
		return false
	}
	if prev.Kind == Literal || prev.Kind == Var || prev.Kind == ParenClose {
		return true
	}
	return prev.Kind == Op && ops[prev.OpIndex].IsConst
}
