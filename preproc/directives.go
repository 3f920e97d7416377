package preproc

import (
	"strings"

	"github.com/sv-tools/svpp/cat"
)

// directiveKind enumerates the backtick directives the engine recognizes by
// name (§4.1's per-directive table, supplemented per the dispatch-table
// pattern). Anything not in this table is either a macro invocation or a
// fatal "unknown directive".
type directiveKind int

const (
	dirInclude directiveKind = iota
	dirDefine
	dirUndef
	dirUndefineall
	dirIfdef
	dirIfndef
	dirElsif
	dirElse
	dirEndif
	dirTimescale
	dirFile
	dirLine
	dirResetall
	dirCelldefine
	dirEndcelldefine
	dirDefaultNettype
)

// directiveTable maps a directive name to its kind. Built once in init;
// never mutated thereafter.
var directiveTable map[string]directiveKind

func init() {
	directiveTable = map[string]directiveKind{
		"include":         dirInclude,
		"define":          dirDefine,
		"undef":           dirUndef,
		"undefineall":     dirUndefineall,
		"ifdef":           dirIfdef,
		"ifndef":          dirIfndef,
		"elsif":           dirElsif,
		"else":            dirElse,
		"endif":           dirEndif,
		"timescale":       dirTimescale,
		"__FILE__":        dirFile,
		"__LINE__":        dirLine,
		"resetall":        dirResetall,
		"celldefine":      dirCelldefine,
		"endcelldefine":   dirEndcelldefine,
		"default_nettype": dirDefaultNettype,
	}
}

// isConditional reports whether kind is one of the `ifdef family, which are
// always processed regardless of the current Defcond state (§4.1's
// Inactivity rule carve-out).
func isConditional(kind directiveKind) bool {
	switch kind {
	case dirIfdef, dirIfndef, dirElsif, dirElse, dirEndif:
		return true
	default:
		return false
	}
}

// handleBacktick processes the directive or escape form introduced by the
// backtick at backtickSpan (§4.1, step 1). It may itself produce the emitted
// token for this Next() call (the two escape forms); everything else either
// mutates engine state and yields nothing, or fails fatally.
func (p *Preprocessor) handleBacktick(backtickSpan Span) (Token, bool, error) {
	p.advance()
	if p.token == nil {
		return Token{}, false, p.fatalf(backtickSpan, "unexpected end of input after `")
	}

	if isIdentStart(*p.token) {
		name, nameSpan, _ := p.readIdentifier()
		fullSpan := Union(backtickSpan, nameSpan)
		return p.dispatchDirective(name, fullSpan)
	}

	cur := *p.token
	switch {
	case isSymbol(cur, '"'):
		p.advance()
		if p.active() {
			return Token{Kind: cat.Symbol, Span: cur.Span}, true, nil
		}
		return Token{}, false, nil

	case isSymbol(cur, '\\'):
		p.advance()
		if p.active() {
			return Token{Kind: cat.Symbol, Span: cur.Span}, true, nil
		}
		return Token{}, false, nil

	case isSymbol(cur, '`'):
		// Token-paste separator: always silently consumed, even when active.
		p.advance()
		return Token{}, false, nil

	default:
		return Token{}, false, p.fatalf(backtickSpan, "unexpected character after `")
	}
}

// dispatchDirective routes a read directive name to its handler, honoring
// the Inactivity rule: only conditional directives run while inactive;
// everything else, known or not, is a silent no-op.
func (p *Preprocessor) dispatchDirective(name string, fullSpan Span) (Token, bool, error) {
	kind, known := directiveTable[name]
	if !known {
		if !p.active() {
			return Token{}, false, nil
		}
		m, ok := p.macroDefs[name]
		if !ok {
			return Token{}, false, p.fatalf(fullSpan, "unknown compiler directive `%s", name)
		}
		return p.expandMacro(name, m, fullSpan)
	}

	if !isConditional(kind) && !p.active() {
		return Token{}, false, nil
	}

	switch kind {
	case dirInclude:
		return Token{}, false, p.handleInclude(fullSpan)
	case dirDefine:
		return Token{}, false, p.handleDefine(fullSpan)
	case dirUndef:
		name, _, ok := p.readIdentifier()
		if ok {
			delete(p.macroDefs, name)
		}
		return Token{}, false, nil
	case dirUndefineall:
		p.macroDefs = make(map[string]*Macro)
		return Token{}, false, nil
	case dirIfdef:
		name, _, ok := p.readIdentifier()
		if !ok {
			return Token{}, false, p.fatalf(fullSpan, "`ifdef without a macro name")
		}
		p.pushIfdef(name, true)
		return Token{}, false, nil
	case dirIfndef:
		name, _, ok := p.readIdentifier()
		if !ok {
			return Token{}, false, p.fatalf(fullSpan, "`ifndef without a macro name")
		}
		p.pushIfdef(name, false)
		return Token{}, false, nil
	case dirElsif:
		name, _, ok := p.readIdentifier()
		if !ok {
			return Token{}, false, p.fatalf(fullSpan, "`elsif without a macro name")
		}
		return Token{}, false, p.popForElsif(name, fullSpan)
	case dirElse:
		return Token{}, false, p.popForElse(fullSpan)
	case dirEndif:
		return Token{}, false, p.popForEndif(fullSpan)
	case dirTimescale:
		p.consumeThroughNewline()
		return Token{}, false, nil
	case dirFile:
		p.macroStack.PushBack(rawTok{Kind: cat.Text, Span: fullSpan})
		p.advance()
		return Token{}, false, nil
	case dirLine:
		p.macroStack.PushBack(rawTok{Kind: cat.Digits, Span: fullSpan})
		p.advance()
		return Token{}, false, nil
	case dirResetall:
		p.dirs = Directives{}
		return Token{}, false, nil
	case dirCelldefine:
		p.dirs.Celldefine = true
		return Token{}, false, nil
	case dirEndcelldefine:
		p.dirs.Celldefine = false
		return Token{}, false, nil
	case dirDefaultNettype:
		return Token{}, false, p.handleDefaultNettype(fullSpan)
	default:
		return Token{}, false, nil
	}
}

// consumeThroughNewline discards tokens up to and including the next
// Newline, or to end of input. Used by `timescale, which has no semantic
// effect beyond being swallowed whole (§4.1's supplemented directive set).
func (p *Preprocessor) consumeThroughNewline() {
	for p.token != nil && p.token.Kind != cat.Newline {
		p.advance()
	}
	if p.token != nil {
		p.advance()
	}
}

// handleDefaultNettype reads the one identifier `default_nettype takes,
// treating "none" as clearing it (§3's option<(CatKind,Span)> model).
func (p *Preprocessor) handleDefaultNettype(dirSpan Span) error {
	p.skipWhitespace()
	if p.token == nil || p.token.Kind != cat.Text {
		return p.fatalf(dirSpan, "`default_nettype without a following net type")
	}
	t := *p.token
	p.advance()
	if t.Span.Extract() == "none" {
		p.dirs.DefaultNettype = nil
		return nil
	}
	tok := t.token()
	p.dirs.DefaultNettype = &tok
	return nil
}

// handleInclude implements `include resolution (§4.1.2): a quoted or
// angle-bracketed filename is read verbatim (no escape processing), resolved
// via the source manager's search order, and pushed as a new stream frame.
func (p *Preprocessor) handleInclude(dirSpan Span) error {
	p.skipWhitespace()
	if p.token == nil {
		return p.fatalf(dirSpan, "`include without a filename")
	}
	open := *p.token
	var closing rune
	switch {
	case isSymbol(open, '"'):
		closing = '"'
	case isSymbol(open, '<'):
		closing = '>'
	default:
		return p.fatalf(dirSpan, "`include expects a \"...\" or <...> filename")
	}
	p.advance()

	var sb strings.Builder
	last := open.Span
	for {
		if p.token == nil || p.token.Kind == cat.Newline {
			return p.fatalf(dirSpan, "unterminated `include filename")
		}
		cur := *p.token
		if isSymbol(cur, closing) {
			last = cur.Span
			p.advance()
			break
		}
		sb.WriteString(cur.Span.Extract())
		last = cur.Span
		p.advance()
	}

	filename := sb.String()
	fullSpan := Union(open.Span, last)
	h, found := p.mgr.ResolveInclude(dirSpan.Handle.Path(), filename)
	if !found {
		return p.fatalf(fullSpan, "cannot find include file %q", filename)
	}

	// p.token currently holds the one token of look-ahead already pulled
	// from the including file, past the closing quote. It must not be
	// emitted yet (the included file's content comes first), nor lost
	// (it still needs to be emitted once the included file is exhausted).
	var after *rawTok
	if p.token != nil {
		saved := *p.token
		after = &saved
	}
	p.pushFrame(h, after)
	p.advance()
	return nil
}

// handleDefine implements `define (§4.1.3, definition half): an optional,
// immediately-adjacent parenthesized parameter list, followed by a body read
// verbatim up to the next unescaped Newline. A backslash directly followed
// by Newline is a line continuation: both are dropped and the body
// continues.
func (p *Preprocessor) handleDefine(dirSpan Span) error {
	name, _, ok := p.readIdentifier()
	if !ok {
		return p.fatalf(dirSpan, "`define without a name")
	}
	m := &Macro{Name: name, DefiningSpan: dirSpan}

	if p.token != nil && isSymbol(*p.token, '(') {
		m.HasParams = true
		p.advance()
		for {
			p.skipWhitespace()
			if p.token != nil && isSymbol(*p.token, ')') {
				p.advance()
				break
			}
			pname, pspan, ok := p.readIdentifier()
			if !ok {
				return p.fatalf(dirSpan, "malformed macro parameter list for `%s", name)
			}
			m.Params = append(m.Params, MacroArg{Name: pname, Span: pspan})
			p.skipWhitespace()
			if p.token != nil && isSymbol(*p.token, ',') {
				p.advance()
				continue
			}
			if p.token != nil && isSymbol(*p.token, ')') {
				p.advance()
				break
			}
			return p.fatalf(dirSpan, "malformed macro parameter list for `%s", name)
		}
	}

	// The whitespace run directly separating the header (name, or parameter
	// list) from the body is a required separator, not part of the body
	// itself; whitespace appearing later, within the body, is preserved
	// verbatim (§8 scenario 4's "preserved whitespace around `+`").
	p.skipWhitespace()

	for p.token != nil {
		t := *p.token
		if isSymbol(t, '\\') {
			p.advance()
			if p.token != nil && p.token.Kind == cat.Newline {
				p.advance()
				continue
			}
			m.Body = append(m.Body, t)
			continue
		}
		if t.Kind == cat.Newline {
			p.advance()
			break
		}
		m.Body = append(m.Body, t)
		p.advance()
	}

	p.macroDefs[name] = m
	return nil
}
