package compiler

import (
	"strings"
)

// Lexer turns raw contract source into a flat token stream. The scanner is
// deliberately permissive: blank lines and // comments are skipped, and so
// is any character it does not recognize. Tokenization never fails, even on
// malformed input.
type Lexer struct{}

// NewLexer creates a new lexer.
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize scans source left to right, line by line.
func (l *Lexer) Tokenize(source string) []Token {
	var tokens []Token

	lines := strings.Split(source, "\n")
	for lineNum, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		pos := 0
		for pos < len(line) {
			ch := line[pos]

			switch {
			case ch == ' ' || ch == '\t' || ch == '\r':
				pos++

			case ch == '"':
				literal, next := scanString(line, pos)
				tokens = append(tokens, Token{Kind: TokenString, Literal: literal, Line: lineNum})
				pos = next

			case isDigit(ch):
				literal, next := scanNumber(line, pos)
				tokens = append(tokens, Token{Kind: TokenNumber, Literal: literal, Line: lineNum})
				pos = next

			case isLetter(ch):
				literal, next := scanWord(line, pos)
				kind := TokenIdentifier
				if isKeyword(literal) {
					kind = TokenKeyword
				}
				tokens = append(tokens, Token{Kind: kind, Literal: literal, Line: lineNum})
				pos = next

			case isOperator(ch):
				tokens = append(tokens, Token{Kind: TokenOperator, Literal: string(ch), Line: lineNum})
				pos++

			case isDelimiter(ch):
				tokens = append(tokens, Token{Kind: TokenDelimiter, Literal: string(ch), Line: lineNum})
				pos++

			default:
				// Unknown characters are skipped, not rejected.
				pos++
			}
		}
	}

	return tokens
}

// scanString consumes a quoted string starting at pos. An unterminated
// string runs to the end of the line; the quotes are kept in the literal.
func scanString(line string, pos int) (string, int) {
	end := pos + 1
	for end < len(line) && line[end] != '"' {
		end++
	}
	if end < len(line) {
		end++ // closing quote
	}
	return line[pos:end], end
}

// scanNumber consumes an integer or decimal literal.
func scanNumber(line string, pos int) (string, int) {
	end := pos
	for end < len(line) && isDigit(line[end]) {
		end++
	}
	if end < len(line) && line[end] == '.' && end+1 < len(line) && isDigit(line[end+1]) {
		end++
		for end < len(line) && isDigit(line[end]) {
			end++
		}
	}
	return line[pos:end], end
}

// scanWord consumes an identifier or keyword.
func scanWord(line string, pos int) (string, int) {
	end := pos
	for end < len(line) && (isLetter(line[end]) || isDigit(line[end])) {
		end++
	}
	return line[pos:end], end
}

func isLetter(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '=', '<', '>', '!', '&', '|':
		return true
	default:
		return false
	}
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '{', '}', '(', ')', '[', ']', ',', ';', ':':
		return true
	default:
		return false
	}
}
