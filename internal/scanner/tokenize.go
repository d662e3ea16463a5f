package scanner

import (
	"errors"
)

type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenObjectBegin
	TokenObjectEnd
	TokenArrayBegin
	TokenArrayEnd
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
	TokenColon
	TokenComma
)

type Token struct {
	Type  TokenType
	Start uint32
	End   uint32
}

var (
	errEmptyInput     = errors.New("empty input")
	errInvalidLiteral = errors.New("invalid literal")
	errInvalidNumber  = errors.New("invalid number")
	errInvalidEscape  = errors.New("invalid escape sequence")
	errControlChar    = errors.New("control character in string")
	errUnexpectedByte = errors.New("unexpected character")
	errInputTooLarge  = errors.New("input exceeds 4 GiB token offsets")
)

// Tokenize splits data into JSON tokens, appending to dst. Strings, numbers
// and literals are checked against the JSON grammar; token order is not,
// that is the parser's job.
func Tokenize(data []byte, dst []Token) ([]Token, error) {
	if len(data) == 0 {
		return dst, errEmptyInput
	}
	if uint64(len(data)) > 1<<32-1 {
		return dst, errInputTooLarge
	}

	n := len(data)
	i := 0
	for i < n {
		c := data[i]
		tok := Token{Start: uint32(i)}

		switch ByteClass[c] {
		case ClassSpace:
			i += Scalar.SpaceRun(data[i:])
			continue
		case ClassOpen:
			tok.Type = TokenObjectBegin
			if c == '[' {
				tok.Type = TokenArrayBegin
			}
			i++
		case ClassClose:
			tok.Type = TokenObjectEnd
			if c == ']' {
				tok.Type = TokenArrayEnd
			}
			i++
		case ClassColon:
			tok.Type = TokenColon
			i++
		case ClassComma:
			tok.Type = TokenComma
			i++
		case ClassQuote:
			end, err := scanStringToken(data, i+1)
			if err != nil {
				return dst, err
			}
			tok.Type = TokenString
			i = end
		default:
			var err error
			switch c {
			case 't':
				tok.Type = TokenTrue
				i, err = expectLiteral(data, i, "true")
			case 'f':
				tok.Type = TokenFalse
				i, err = expectLiteral(data, i, "false")
			case 'n':
				tok.Type = TokenNull
				i, err = expectLiteral(data, i, "null")
			default:
				if c != '-' && !isDigit(c) {
					return dst, errUnexpectedByte
				}
				tok.Type = TokenNumber
				i, err = scanNumber(data, i)
			}
			if err != nil {
				return dst, err
			}
		}

		tok.End = uint32(i)
		dst = append(dst, tok)
	}

	return dst, nil
}

func scanStringToken(data []byte, i int) (int, error) {
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case c == '"':
			return i + 1, nil
		case c < 0x20:
			return 0, errControlChar
		case c == '\\':
			if i+1 >= n {
				return 0, ErrUnterminatedString
			}
			switch data[i+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				if i+6 > n {
					return 0, errInvalidEscape
				}
				for _, h := range data[i+2 : i+6] {
					if !isHex(h) {
						return 0, errInvalidEscape
					}
				}
				i += 6
			default:
				return 0, errInvalidEscape
			}
		default:
			i++
		}
	}
	return 0, ErrUnterminatedString
}

func expectLiteral(data []byte, i int, lit string) (int, error) {
	end := i + len(lit)
	if end > len(data) || string(data[i:end]) != lit {
		return 0, errInvalidLiteral
	}
	if end < len(data) && ByteClass[data[end]] == ClassOther {
		return 0, errInvalidLiteral
	}
	return end, nil
}

func scanNumber(data []byte, i int) (int, error) {
	n := len(data)
	if data[i] == '-' {
		i++
	}
	if i >= n || !isDigit(data[i]) {
		return 0, errInvalidNumber
	}

	// No leading zeros.
	if data[i] == '0' {
		i++
		if i < n && isDigit(data[i]) {
			return 0, errInvalidNumber
		}
	} else {
		for i < n && isDigit(data[i]) {
			i++
		}
	}

	if i < n && data[i] == '.' {
		i++
		if i >= n || !isDigit(data[i]) {
			return 0, errInvalidNumber
		}
		for i < n && isDigit(data[i]) {
			i++
		}
	}

	if i < n && (data[i] == 'e' || data[i] == 'E') {
		i++
		if i < n && (data[i] == '+' || data[i] == '-') {
			i++
		}
		if i >= n || !isDigit(data[i]) {
			return 0, errInvalidNumber
		}
		for i < n && isDigit(data[i]) {
			i++
		}
	}

	if i < n && ByteClass[data[i]] == ClassOther {
		return 0, errInvalidNumber
	}
	return i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
