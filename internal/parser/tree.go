// Package parser turns the textual key-binding grammar used in layer
// config files (e.g. "KC_A", "LT(nav, KC_ESC, 200)") into a KeyTree, and
// then into a keycode.KeyCode via the converters in keycode.go.
//
// Grammar:
//
//	identifier            ==  identifier()
//	identifier(arg, ...)
//
// Arguments nest: identifier(arg1, identifier2(arg2)).
package parser

import (
	"fmt"
	"strings"
)

type rawTokenKind int

const (
	tokIdentifier rawTokenKind = iota
	tokStart
	tokEnd
	tokComma
)

type rawToken struct {
	kind rawTokenKind
	text string
}

// tokenize splits a key-binding string into raw tokens, synthesizing a
// trailing "()" for an identifier with no parenthesis at all.
func tokenize(v string) ([]rawToken, error) {
	if v == "" {
		return nil, fmt.Errorf("empty key string")
	}

	type delim struct {
		pos int
		ch  byte
	}
	var delims []delim
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(', ')', ',':
			delims = append(delims, delim{i, v[i]})
		}
	}

	var tokens []rawToken
	if len(delims) == 0 {
		tokens = []rawToken{
			{tokIdentifier, strings.TrimSpace(v)},
			{tokStart, ""},
			{tokEnd, ""},
		}
	} else {
		if delims[0].pos != 0 {
			if text := strings.TrimSpace(v[:delims[0].pos]); text != "" {
				tokens = append(tokens, rawToken{tokIdentifier, text})
			}
		}
		for i, d := range delims {
			switch d.ch {
			case '(':
				tokens = append(tokens, rawToken{kind: tokStart})
			case ')':
				tokens = append(tokens, rawToken{kind: tokEnd})
			case ',':
				tokens = append(tokens, rawToken{kind: tokComma})
			}
			start := d.pos + 1
			stop := len(v)
			if i < len(delims)-1 {
				stop = delims[i+1].pos
			}
			if text := strings.TrimSpace(v[start:stop]); text != "" {
				tokens = append(tokens, rawToken{tokIdentifier, text})
			}
		}
	}

	if err := verifyFirstIsIdentifier(tokens); err != nil {
		return nil, err
	}
	if err := verifyOrdering(tokens); err != nil {
		return nil, err
	}
	if err := verifyBalanced(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func verifyFirstIsIdentifier(tokens []rawToken) error {
	if len(tokens) == 0 {
		return fmt.Errorf("no tokens to parse")
	}
	if tokens[0].kind != tokIdentifier {
		return fmt.Errorf("expected an identifier at the beginning")
	}
	if len(tokens) < 2 {
		return fmt.Errorf("missing a token after the first identifier")
	}
	if tokens[1].kind != tokStart {
		return fmt.Errorf("the second token can only be \"(\" or implicit")
	}
	return nil
}

func verifyOrdering(tokens []rawToken) error {
	for i, t := range tokens {
		last := i == len(tokens)-1
		switch t.kind {
		case tokStart:
			if last {
				return fmt.Errorf("the \"(\" character must be followed by another token")
			}
			switch tokens[i+1].kind {
			case tokStart:
				return fmt.Errorf("the \"(\" token can't be followed by another \"(\"")
			case tokComma:
				return fmt.Errorf("the \"(\" token can't be followed by a \",\"")
			}
		case tokEnd:
			if !last && tokens[i+1].kind == tokIdentifier {
				return fmt.Errorf("the \")\" token can't be followed immediately by an identifier")
			}
		case tokComma:
			if !last && tokens[i+1].kind != tokIdentifier {
				return fmt.Errorf("the \",\" token can only be followed by an identifier")
			}
		}
	}
	return nil
}

func verifyBalanced(tokens []rawToken) error {
	depth := 0
	for _, t := range tokens {
		switch t.kind {
		case tokStart:
			depth++
		case tokEnd:
			depth--
			if depth < 0 {
				return fmt.Errorf("missing a \"(\" token")
			}
		}
	}
	if depth > 0 {
		return fmt.Errorf("missing a \")\" token")
	}
	return nil
}

type simplifiedKind int

const (
	simFunction simplifiedKind = iota
	simArgument
	simEndFunction
)

type simplifiedToken struct {
	kind simplifiedKind
	text string
}

func simplify(tokens []rawToken) []simplifiedToken {
	var out []simplifiedToken
	for i, t := range tokens {
		switch t.kind {
		case tokComma, tokStart:
			continue
		case tokEnd:
			out = append(out, simplifiedToken{kind: simEndFunction})
		case tokIdentifier:
			if i+1 < len(tokens) && tokens[i+1].kind == tokStart {
				out = append(out, simplifiedToken{kind: simFunction, text: t.text})
			} else {
				out = append(out, simplifiedToken{kind: simArgument, text: t.text})
			}
		}
	}
	return out
}

// KeyTree is a parsed, hierarchical collection of identifiers and
// optional nested arguments, all still strings.
type KeyTree struct {
	Identifier string
	Args       []KeyTree
}

// Parse tokenizes and builds a KeyTree from a key-binding string.
func Parse(v string) (KeyTree, error) {
	tokens, err := tokenize(strings.TrimSpace(v))
	if err != nil {
		return KeyTree{}, fmt.Errorf("parsing %q: %w", v, err)
	}
	simplified := simplify(tokens)
	idx := 0
	tree, err := buildTree(simplified, &idx)
	if err != nil {
		return KeyTree{}, fmt.Errorf("parsing %q: %w", v, err)
	}
	return tree, nil
}

func buildTree(vals []simplifiedToken, idx *int) (KeyTree, error) {
	if *idx >= len(vals) || vals[*idx].kind != simFunction {
		return KeyTree{}, fmt.Errorf("expected a function token")
	}
	ans := KeyTree{Identifier: vals[*idx].text}
	*idx++

	for *idx < len(vals) {
		switch vals[*idx].kind {
		case simEndFunction:
			return ans, nil
		case simFunction:
			child, err := buildTree(vals, idx)
			if err != nil {
				return KeyTree{}, err
			}
			ans.Args = append(ans.Args, child)
		case simArgument:
			ans.Args = append(ans.Args, KeyTree{Identifier: vals[*idx].text})
		}
		*idx++
	}
	return ans, nil
}
