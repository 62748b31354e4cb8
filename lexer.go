// lexer.go — whitespace-sensitive scanner for the Achronyme surface syntax.
//
// The lexer produces a flat token stream with 1-based positions. Two signals
// matter to the parser beyond the token types themselves:
//
//   - '(' and '[' are emitted as CLROUND/CLSQUARE when they follow the
//     previous token with no whitespace in between. Only those variants
//     participate in calls and indexing, so `f(x)` is a call while `f (x)`
//     is two expressions. Grouping accepts either variant.
//   - every token records whether a newline separated it from the previous
//     token (NlBefore). The parser uses this to stop an expression at a line
//     break instead of swallowing the next statement as an operand.
//
// Comments are `//` to end of line and non-nesting `/* */` blocks.
package achronyme

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND   // "(" preceded by whitespace (grouping only)
	CLROUND  // "(" glued to the previous token (call or grouping)
	RROUND   // ")"
	LSQUARE  // "[" preceded by whitespace (vector literal)
	CLSQUARE // "[" glued to the previous token (indexing or literal)
	RSQUARE  // "]"
	LCURLY   // "{"
	RCURLY   // "}"
	COLON    // ":"
	COMMA    // ","
	PERIOD   // "."
	ELLIPSIS // "..."

	// Operators
	PLUS       // "+"
	MINUS      // "-"
	MULT       // "*"
	DIV        // "/"
	MOD        // "%"
	POW        // "^"
	ASSIGN     // "="
	EQ         // "=="
	NEQ        // "!="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="
	AND        // "&&"
	OR         // "||"
	BANG       // "!"
	ARROW      // "=>"

	// Literals & identifiers
	ID
	STRING
	NUMBER
	BOOLEAN
	NULL

	// Keywords
	LET
	MUT
	IF
	ELSE
	WHILE
	FOR
	IN
	DO
	RETURN
	YIELD
	GENERATE
)

var keywords = map[string]TokenType{
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"do":       DO,
	"return":   RETURN,
	"yield":    YIELD,
	"generate": GENERATE,
	"true":     BOOLEAN,
	"false":    BOOLEAN,
	"null":     NULL,
}

// Token is one lexeme with its decoded literal (float64 for NUMBER, string
// for STRING, bool for BOOLEAN) and 1-based source position.
type Token struct {
	Type     TokenType
	Lexeme   string
	Literal  interface{}
	Line     int
	Col      int
	NlBefore bool
}

// LexError reports a scanning failure at a 1-based position. Incomplete is
// set (in interactive mode) when the failure is an unterminated construct
// that more input could finish, so a REPL can prompt for continuation.
type LexError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src         []rune
	cur         int
	line        int
	col         int
	toks        []Token
	interactive bool

	nlPending bool // newline seen since the last emitted token
	wsBefore  bool // whitespace immediately before the current position
}

// NewLexer prepares a scanner over src.
func NewLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1, wsBefore: true}
}

// NewLexerInteractive is NewLexer with incomplete-input detection for REPLs.
func NewLexerInteractive(src string) *lexer {
	l := NewLexer(src)
	l.interactive = true
	return l
}

// Scan tokenizes the whole input, ending with an EOF token.
func (l *lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()
		if l.atEnd() {
			break
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.emit(EOF, "", nil, l.line, l.col)
	return l.toks, nil
}

func (l *lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *lexer) peekAt(off int) rune {
	if l.cur+off >= len(l.src) {
		return 0
	}
	return l.src[l.cur+off]
}

func (l *lexer) advance() rune {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) match(want rune) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

func (l *lexer) errAt(line, col int, msg string, incomplete bool) error {
	return &LexError{Line: line, Col: col, Msg: msg, Incomplete: incomplete && l.interactive}
}

// skipBlanks consumes whitespace and comments, tracking the newline and
// adjacency flags the parser relies on.
func (l *lexer) skipBlanks() {
	for !l.atEnd() {
		switch ch := l.peek(); {
		case ch == '\n':
			l.nlPending = true
			l.wsBefore = true
			l.advance()
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.wsBefore = true
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			l.wsBefore = true
		case ch == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekAt(1) == '/') {
				if l.peek() == '\n' {
					l.nlPending = true
				}
				l.advance()
			}
			if !l.atEnd() {
				l.advance()
				l.advance()
			}
			l.wsBefore = true
		default:
			return
		}
	}
}

func (l *lexer) emit(tt TokenType, lexeme string, lit interface{}, line, col int) {
	l.toks = append(l.toks, Token{
		Type: tt, Lexeme: lexeme, Literal: lit,
		Line: line, Col: col, NlBefore: l.nlPending,
	})
	l.nlPending = false
	l.wsBefore = false
}

func (l *lexer) scanToken() error {
	line, col := l.line, l.col
	glued := !l.wsBefore
	ch := l.advance()

	simple := func(tt TokenType, lexeme string) {
		l.emit(tt, lexeme, nil, line, col)
	}

	switch ch {
	case '(':
		if glued {
			simple(CLROUND, "(")
		} else {
			simple(LROUND, "(")
		}
	case ')':
		simple(RROUND, ")")
	case '[':
		if glued {
			simple(CLSQUARE, "[")
		} else {
			simple(LSQUARE, "[")
		}
	case ']':
		simple(RSQUARE, "]")
	case '{':
		simple(LCURLY, "{")
	case '}':
		simple(RCURLY, "}")
	case ':':
		simple(COLON, ":")
	case ',':
		simple(COMMA, ",")
	case '+':
		simple(PLUS, "+")
	case '*':
		simple(MULT, "*")
	case '/':
		simple(DIV, "/")
	case '%':
		simple(MOD, "%")
	case '^':
		simple(POW, "^")
	case '-':
		simple(MINUS, "-")
	case '.':
		if isDigit(l.peek()) {
			return l.scanNumber(line, col, true)
		}
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			simple(ELLIPSIS, "...")
		} else {
			simple(PERIOD, ".")
		}
	case '=':
		switch {
		case l.match('='):
			simple(EQ, "==")
		case l.match('>'):
			simple(ARROW, "=>")
		default:
			simple(ASSIGN, "=")
		}
	case '!':
		if l.match('=') {
			simple(NEQ, "!=")
		} else {
			simple(BANG, "!")
		}
	case '<':
		if l.match('=') {
			simple(LESS_EQ, "<=")
		} else {
			simple(LESS, "<")
		}
	case '>':
		if l.match('=') {
			simple(GREATER_EQ, ">=")
		} else {
			simple(GREATER, ">")
		}
	case '&':
		if l.match('&') {
			simple(AND, "&&")
		} else {
			return l.errAt(line, col, "unexpected character '&'", false)
		}
	case '|':
		if l.match('|') {
			simple(OR, "||")
		} else {
			return l.errAt(line, col, "unexpected character '|'", false)
		}
	case '"':
		return l.scanString(line, col)
	default:
		switch {
		case isDigit(ch):
			l.cur--
			l.col--
			return l.scanNumber(line, col, false)
		case isIdentStart(ch):
			l.cur--
			l.col--
			l.scanIdent(line, col)
		default:
			return l.errAt(line, col, fmt.Sprintf("unexpected character %q", ch), false)
		}
	}
	return nil
}

func (l *lexer) scanString(line, col int) error {
	var out []rune
	for {
		if l.atEnd() || l.peek() == '\n' {
			return l.errAt(line, col, "unterminated string", true)
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch == '\\' {
			if l.atEnd() {
				return l.errAt(line, col, "unterminated string", true)
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				return l.errAt(l.line, l.col-1, fmt.Sprintf("invalid escape '\\%c'", esc), false)
			}
			continue
		}
		out = append(out, ch)
	}
	l.emit(STRING, string(out), string(out), line, col)
	return nil
}

func (l *lexer) scanNumber(line, col int, leadingDot bool) error {
	start := l.cur
	if leadingDot {
		start-- // the '.' was already consumed
	}
	for isDigit(l.peek()) {
		l.advance()
	}
	if !leadingDot && l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	lexeme := string(l.src[start:l.cur])
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return l.errAt(line, col, fmt.Sprintf("invalid number literal %q", lexeme), false)
	}
	l.emit(NUMBER, lexeme, f, line, col)
	return nil
}

func (l *lexer) scanIdent(line, col int) {
	start := l.cur
	for isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.cur])
	if tt, ok := keywords[lexeme]; ok {
		switch tt {
		case BOOLEAN:
			l.emit(BOOLEAN, lexeme, lexeme == "true", line, col)
		case NULL:
			l.emit(NULL, lexeme, nil, line, col)
		default:
			l.emit(tt, lexeme, nil, line, col)
		}
		return
	}
	l.emit(ID, lexeme, nil, line, col)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool { return isIdentStart(ch) || isDigit(ch) }
