// parser.go — Pratt parser producing compact S-expressions.
//
// The parser consumes the whitespace-sensitive token stream from lexer.go
// and builds a Lisp-style AST: []any whose first element is a string tag.
//
//	("block", n1, n2, ...)
//
// Literals & identifiers:
//
//	("num",  float64)
//	("str",  string)
//	("bool", bool)
//	("null")
//	("id",   string)
//
// Bindings & assignment:
//
//	("let", name, expr)           // immutable binding
//	("mut", name, expr)           // mutable binding
//	("assign", target, expr)      // target: ("id",..) | ("get",..) | ("idx",..)
//
// Operators / expressions:
//
//	("unop",  op, rhs)            // prefix "-" or "!"
//	("binop", op, lhs, rhs)       // + - * / % ^ comparisons == != && ||
//	("call", callee, arg...)
//	("get",  obj, ("str", name))  // obj.name
//	("idx",  obj, expr)           // obj[expr]
//	("vector", elem...)           // elem may be ("spread", expr)
//	("record", ("pair", ("str", key), value)...)
//	("lambda", ("params", name...), body)
//
// Control flow & suspension:
//
//	("if", cond, thenBlock)                // value 0 when cond is false
//	("if", cond, thenBlock, elseNode)      // elseNode: block or nested "if"
//	("while", cond, bodyBlock)
//	("for", name, iterExpr, bodyBlock)
//	("do", bodyBlock)
//	("return", expr)
//	("yield", expr)
//	("generate", bodyBlock)
//
// Newline handling: an expression never extends across a line break. The
// infix/postfix loops stop when the candidate operator token carries
// NlBefore, which is what separates consecutive statements without
// semicolons. Calls require CLROUND and indexing CLSQUARE (the glued
// variants), so `f (x)` is not a call.
//
// Interactive mode surfaces ParseError{Incomplete: true} when the input
// ends mid-construct, so the REPL can show a continuation prompt.
package achronyme

import "fmt"

// S is the S-expression node: a slice whose first element is a string tag.
type S = []any

// L builds an S-expression node.
func L(parts ...any) S { return S(parts) }

// ParseError reports a syntax failure at a 1-based position.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err marks input that more lines could
// complete (unclosed block, unterminated string, dangling operator).
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *ParseError:
		return e.Incomplete
	case *LexError:
		return e.Incomplete
	}
	return false
}

// ParseSource lexes and parses src into a ("block", ...) program node.
func ParseSource(src string) (S, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return (&parser{toks: toks}).parseProgram()
}

// ParseSourceInteractive is ParseSource with incomplete-input detection.
func ParseSourceInteractive(src string) (S, error) {
	toks, err := NewLexerInteractive(src).Scan()
	if err != nil {
		return nil, err
	}
	return (&parser{toks: toks, interactive: true}).parseProgram()
}

/* ---------- parser state ---------- */

type parser struct {
	toks        []Token
	pos         int
	interactive bool
}

// Operator precedence, low to high. Assignment and power are right
// associative; everything else binds left.
const (
	precAssign = iota + 1
	precOr
	precAnd
	precEq
	precCmp
	precAdd
	precMul
	precPow
	precUnary
)

func (p *parser) peek() Token { return p.toks[p.pos] }
func (p *parser) prev() Token { return p.toks[p.pos-1] }

func (p *parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType, what string) Token {
	if p.check(tt) {
		return p.next()
	}
	p.errHere(fmt.Sprintf("expected %s", what))
	return Token{}
}

// errHere panics with a *ParseError at the current token. At EOF in
// interactive mode the error is marked incomplete.
func (p *parser) errHere(msg string) {
	t := p.peek()
	where := t.Lexeme
	if t.Type == EOF {
		where = "end of input"
	}
	panic(&ParseError{
		Line:       t.Line,
		Col:        t.Col,
		Msg:        fmt.Sprintf("%s, found %s", msg, describe(where)),
		Incomplete: p.interactive && t.Type == EOF,
	})
}

func describe(lexeme string) string {
	if lexeme == "end of input" {
		return lexeme
	}
	return fmt.Sprintf("'%s'", lexeme)
}

func (p *parser) parseProgram() (ast S, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				ast, err = nil, pe
				return
			}
			panic(r)
		}
	}()
	prog := L("block")
	for !p.check(EOF) {
		prog = append(prog, p.parseStatement())
	}
	return prog, nil
}

/* ---------- statements ---------- */

func (p *parser) parseStatement() S {
	switch p.peek().Type {
	case LET, MUT:
		kw := p.next()
		name := p.expect(ID, "a name after '"+kw.Lexeme+"'")
		p.expect(ASSIGN, "'=' in binding")
		val := p.parseExpr(precAssign)
		if kw.Type == LET {
			return L("let", name.Lexeme, val)
		}
		return L("mut", name.Lexeme, val)
	case RETURN:
		p.next()
		if p.stmtEnds() {
			return L("return", L("null"))
		}
		return L("return", p.parseExpr(precAssign))
	case YIELD:
		p.next()
		return L("yield", p.parseExpr(precAssign))
	default:
		return p.parseExpr(precAssign)
	}
}

// stmtEnds reports whether the current token cannot start an expression on
// the same line (used for bare `return`).
func (p *parser) stmtEnds() bool {
	t := p.peek()
	return t.Type == EOF || t.Type == RCURLY || t.NlBefore
}

// parseBlock parses `{ stmt* }` into a ("block", ...) node.
func (p *parser) parseBlock(what string) S {
	p.expect(LCURLY, "'{' to open "+what)
	body := L("block")
	for !p.check(RCURLY) {
		if p.check(EOF) {
			p.errHere("expected '}' to close " + what)
		}
		body = append(body, p.parseStatement())
	}
	p.next()
	return body
}

/* ---------- expressions ---------- */

func (p *parser) parseExpr(minPrec int) S {
	lhs := p.parseUnary()
	for {
		t := p.peek()
		if t.NlBefore {
			return lhs
		}
		prec, rightAssoc, op := infixOf(t.Type)
		if prec == 0 || prec < minPrec {
			return lhs
		}
		p.next()
		if t.Type == ASSIGN {
			lhs = p.buildAssign(lhs)
			continue
		}
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		rhs := p.parseExpr(nextMin)
		lhs = L("binop", op, lhs, rhs)
	}
}

func infixOf(tt TokenType) (prec int, rightAssoc bool, op string) {
	switch tt {
	case ASSIGN:
		return precAssign, true, "="
	case OR:
		return precOr, false, "||"
	case AND:
		return precAnd, false, "&&"
	case EQ:
		return precEq, false, "=="
	case NEQ:
		return precEq, false, "!="
	case LESS:
		return precCmp, false, "<"
	case LESS_EQ:
		return precCmp, false, "<="
	case GREATER:
		return precCmp, false, ">"
	case GREATER_EQ:
		return precCmp, false, ">="
	case PLUS:
		return precAdd, false, "+"
	case MINUS:
		return precAdd, false, "-"
	case MULT:
		return precMul, false, "*"
	case DIV:
		return precMul, false, "/"
	case MOD:
		return precMul, false, "%"
	case POW:
		return precPow, true, "^"
	}
	return 0, false, ""
}

// buildAssign validates the left side of `=` and parses the right side.
func (p *parser) buildAssign(target S) S {
	switch target[0].(string) {
	case "id", "get", "idx":
		return L("assign", target, p.parseExpr(precAssign))
	}
	t := p.prev()
	panic(&ParseError{Line: t.Line, Col: t.Col, Msg: "invalid assignment target"})
}

func (p *parser) parseUnary() S {
	switch p.peek().Type {
	case MINUS:
		p.next()
		return L("unop", "-", p.parseUnary())
	case BANG:
		p.next()
		return L("unop", "!", p.parseUnary())
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix extends an operand with calls, indexing and field access.
// Only glued '(' and '[' extend, and never across a line break.
func (p *parser) parsePostfix(e S) S {
	for {
		t := p.peek()
		if t.NlBefore {
			return e
		}
		switch t.Type {
		case CLROUND:
			p.next()
			call := L("call", e)
			for !p.check(RROUND) {
				call = append(call, p.parseExpr(precAssign))
				if !p.match(COMMA) {
					break
				}
			}
			p.expect(RROUND, "')' to close call")
			e = call
		case CLSQUARE:
			p.next()
			idx := p.parseExpr(precAssign)
			p.expect(RSQUARE, "']' to close index")
			e = L("idx", e, idx)
		case PERIOD:
			p.next()
			name := p.expect(ID, "a field name after '.'")
			e = L("get", e, L("str", name.Lexeme))
		default:
			return e
		}
	}
}

func (p *parser) parsePrimary() S {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.next()
		return L("num", t.Literal.(float64))
	case STRING:
		p.next()
		return L("str", t.Literal.(string))
	case BOOLEAN:
		p.next()
		return L("bool", t.Literal.(bool))
	case NULL:
		p.next()
		return L("null")
	case ID:
		p.next()
		if p.check(ARROW) && !p.peek().NlBefore {
			p.next()
			return L("lambda", L("params", t.Lexeme), p.parseExpr(precOr))
		}
		return L("id", t.Lexeme)
	case LROUND, CLROUND:
		if p.lambdaAhead() {
			return p.parseLambda()
		}
		p.next()
		e := p.parseExpr(precAssign)
		p.expect(RROUND, "')' to close group")
		return e
	case LSQUARE, CLSQUARE:
		return p.parseVector()
	case LCURLY:
		return p.parseRecord()
	case IF:
		return p.parseIf()
	case WHILE:
		p.next()
		cond := p.parseParenExpr("while")
		return L("while", cond, p.parseBlock("while body"))
	case FOR:
		return p.parseFor()
	case DO:
		p.next()
		return L("do", p.parseBlock("do block"))
	case GENERATE:
		p.next()
		return L("generate", p.parseBlock("generate body"))
	}
	p.errHere("expected an expression")
	return nil
}

// parseParenExpr parses `( expr )` after a control keyword. Both paren
// variants are accepted there since no call ambiguity exists.
func (p *parser) parseParenExpr(what string) S {
	if !p.match(LROUND) && !p.match(CLROUND) {
		p.errHere("expected '(' after '" + what + "'")
	}
	e := p.parseExpr(precAssign)
	p.expect(RROUND, "')' after "+what+" condition")
	return e
}

func (p *parser) parseIf() S {
	p.next()
	cond := p.parseParenExpr("if")
	then := p.parseBlock("if body")
	if !p.match(ELSE) {
		return L("if", cond, then)
	}
	if p.check(IF) {
		return L("if", cond, then, p.parseIf())
	}
	return L("if", cond, then, p.parseBlock("else body"))
}

func (p *parser) parseFor() S {
	p.next()
	if !p.match(LROUND) && !p.match(CLROUND) {
		p.errHere("expected '(' after 'for'")
	}
	name := p.expect(ID, "a loop variable after 'for ('")
	p.expect(IN, "'in' after the loop variable")
	iter := p.parseExpr(precAssign)
	p.expect(RROUND, "')' after for header")
	return L("for", name.Lexeme, iter, p.parseBlock("for body"))
}

func (p *parser) parseVector() S {
	p.next()
	vec := L("vector")
	for !p.check(RSQUARE) {
		if p.match(ELLIPSIS) {
			vec = append(vec, L("spread", p.parseExpr(precAssign)))
		} else {
			vec = append(vec, p.parseExpr(precAssign))
		}
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RSQUARE, "']' to close vector")
	return vec
}

// parseRecord parses `{ key: value, ... }`. Keys are identifiers or string
// literals; a `mut` marker before a key is accepted (all record fields are
// assignable, so it carries no extra meaning).
func (p *parser) parseRecord() S {
	p.next()
	rec := L("record")
	for !p.check(RCURLY) {
		p.match(MUT)
		var key string
		switch {
		case p.check(ID):
			key = p.next().Lexeme
		case p.check(STRING):
			key = p.next().Literal.(string)
		default:
			p.errHere("expected a field name")
		}
		p.expect(COLON, "':' after field name")
		rec = append(rec, L("pair", L("str", key), p.parseExpr(precAssign)))
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RCURLY, "'}' to close record")
	return rec
}

// lambdaAhead looks past a '(' for the `) =>` signature that distinguishes
// a parameter list from a grouping.
func (p *parser) lambdaAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case LROUND, CLROUND:
			depth++
		case RROUND:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Type == ARROW
			}
		case EOF:
			return false
		}
	}
	return false
}

func (p *parser) parseLambda() S {
	p.next() // the '('
	params := L("params")
	for !p.check(RROUND) {
		name := p.expect(ID, "a parameter name")
		params = append(params, name.Lexeme)
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RROUND, "')' to close parameters")
	p.expect(ARROW, "'=>' after parameters")
	return L("lambda", params, p.parseExpr(precOr))
}
