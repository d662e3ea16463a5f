// Package parser checks that a token stream forms exactly one JSON value.
// It builds nothing; the minifier never needs a document tree.
package parser

import (
	"errors"

	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

// MaxDepth bounds nesting so hostile input cannot exhaust the stack.
const MaxDepth = 10000

var (
	ErrEmpty         = errors.New("empty JSON")
	ErrTrailingData  = errors.New("data after top-level value")
	ErrTooDeep       = errors.New("nesting exceeds maximum depth")
	errUnexpectedEnd = errors.New("unexpected end of JSON")
	errUnexpected    = errors.New("unexpected token")
	errKey           = errors.New("expected string key")
	errColon         = errors.New("expected colon after key")
	errObjectSep     = errors.New("expected comma or object end")
	errArraySep      = errors.New("expected comma or array end")
)

type Parser struct {
	tokens []scanner.Token
	pos    int
	depth  int
}

// Check tokenizes data and verifies its grammar.
func Check(data []byte) error {
	tokens, err := scanner.Tokenize(data, scanner.GetTokens())
	defer func() { scanner.PutTokens(tokens) }()
	if err != nil {
		return err
	}
	return CheckTokens(tokens)
}

// CheckTokens verifies that tokens form exactly one value.
func CheckTokens(tokens []scanner.Token) error {
	if len(tokens) == 0 {
		return ErrEmpty
	}
	p := Parser{tokens: tokens}
	if err := p.parseValue(); err != nil {
		return err
	}
	if p.pos != len(p.tokens) {
		return ErrTrailingData
	}
	return nil
}

func (p *Parser) next() (scanner.TokenType, bool) {
	if p.pos >= len(p.tokens) {
		return scanner.TokenNone, false
	}
	t := p.tokens[p.pos].Type
	p.pos++
	return t, true
}

func (p *Parser) peek() scanner.TokenType {
	if p.pos >= len(p.tokens) {
		return scanner.TokenNone
	}
	return p.tokens[p.pos].Type
}

func (p *Parser) parseValue() error {
	t, ok := p.next()
	if !ok {
		return errUnexpectedEnd
	}

	switch t {
	case scanner.TokenObjectBegin:
		return p.parseObject()
	case scanner.TokenArrayBegin:
		return p.parseArray()
	case scanner.TokenString, scanner.TokenNumber,
		scanner.TokenTrue, scanner.TokenFalse, scanner.TokenNull:
		return nil
	}
	return errUnexpected
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (p *Parser) parseObject() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer func() { p.depth-- }()

	// Empty object
	if p.peek() == scanner.TokenObjectEnd {
		p.pos++
		return nil
	}

	for {
		if t, _ := p.next(); t != scanner.TokenString {
			return errKey
		}
		if t, _ := p.next(); t != scanner.TokenColon {
			return errColon
		}
		if err := p.parseValue(); err != nil {
			return err
		}

		switch t, ok := p.next(); {
		case !ok:
			return errUnexpectedEnd
		case t == scanner.TokenObjectEnd:
			return nil
		case t != scanner.TokenComma:
			return errObjectSep
		}
	}
}

func (p *Parser) parseArray() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer func() { p.depth-- }()

	// Empty array
	if p.peek() == scanner.TokenArrayEnd {
		p.pos++
		return nil
	}

	for {
		if err := p.parseValue(); err != nil {
			return err
		}

		switch t, ok := p.next(); {
		case !ok:
			return errUnexpectedEnd
		case t == scanner.TokenArrayEnd:
			return nil
		case t != scanner.TokenComma:
			return errArraySep
		}
	}
}
