package preproc

import "github.com/sv-tools/svpp/cat"

// MacroArg is a formal parameter of a parameterized macro (§3).
type MacroArg struct {
	Name string
	Span Span
}

// Macro is a textual macro definition (§3): a name, its defining span, an
// ordered parameter list, and a body token sequence. Macros without
// parentheses after their name at definition time are parameterless and
// must be invoked without parentheses (HasParams == false); macros with
// parentheses have an explicit, possibly empty, parameter list
// (HasParams == true).
type Macro struct {
	Name         string
	DefiningSpan Span
	HasParams    bool
	Params       []MacroArg
	Body         []rawTok
}

// readIdentifier skips any leading Whitespace, then reads the sequence
// `Text | Symbol('_')` followed by any mix of `Text | Digits | Symbol('_')`,
// joining the extracted text into one string and the spans into one covering
// span (§4.1 Main loop, step 1).
func (p *Preprocessor) readIdentifier() (string, Span, bool) {
	p.skipWhitespace()
	if p.token == nil || !isIdentStart(*p.token) {
		return "", Span{}, false
	}
	first := *p.token
	name := first.Span.Extract()
	span := first.Span
	p.advance()

	for p.token != nil && isIdentCont(*p.token) {
		t := *p.token
		name += t.Span.Extract()
		span.Expand(t.Span)
		p.advance()
	}
	return name, span, true
}

func isIdentStart(t rawTok) bool {
	return t.Kind == cat.Text || isSymbol(t, '_')
}

func isIdentCont(t rawTok) bool {
	return t.Kind == cat.Text || t.Kind == cat.Digits || isSymbol(t, '_')
}

// skipWhitespace advances past any run of Whitespace tokens (not Newline).
func (p *Preprocessor) skipWhitespace() {
	for p.token != nil && p.token.Kind == cat.Whitespace {
		p.advance()
	}
}

// parseMacroArgs parses a comma-separated argument list at depth 0 up to the
// matching ')', binding each argument's verbatim token sequence to the
// corresponding parameter name (§4.1.3, step 1).
func (p *Preprocessor) parseMacroArgs(invokeSpan Span, m *Macro) (map[string][]rawTok, error) {
	if p.token == nil || !isSymbol(*p.token, '(') {
		return nil, p.fatalf(invokeSpan, "macro `%s` requires an argument list", m.Name)
	}
	p.advance() // consume '('

	if p.token != nil && isSymbol(*p.token, ')') {
		p.advance()
		if len(m.Params) != 0 {
			return nil, p.fatalf(invokeSpan, "macro `%s` expects %d arguments, got 0", m.Name, len(m.Params))
		}
		return map[string][]rawTok{}, nil
	}

	var args [][]rawTok
	var cur []rawTok
	depth := 0
	for {
		if p.token == nil {
			return nil, p.fatalf(invokeSpan, "malformed macro argument list")
		}
		t := *p.token
		switch {
		case isSymbol(t, '('):
			depth++
			cur = append(cur, t)
			p.advance()
		case isSymbol(t, ')') && depth == 0:
			args = append(args, cur)
			p.advance()
			goto done
		case isSymbol(t, ')'):
			depth--
			cur = append(cur, t)
			p.advance()
		case isSymbol(t, ',') && depth == 0:
			args = append(args, cur)
			cur = nil
			p.advance()
		default:
			cur = append(cur, t)
			p.advance()
		}
	}
done:
	if len(args) != len(m.Params) {
		return nil, p.fatalf(invokeSpan, "macro `%s` expects %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	result := make(map[string][]rawTok, len(m.Params))
	for i, prm := range m.Params {
		result[prm.Name] = args[i]
	}
	return result, nil
}

// expandMacro performs §4.1.3's substitution-and-re-injection algorithm: the
// current look-ahead (the token following the invocation) is saved and
// pushed first so it is served last; the (possibly argument-substituted)
// body is then pushed on top, in reverse, so popping the macro stack yields
// it in forward order.
func (p *Preprocessor) expandMacro(name string, m *Macro, invokeSpan Span) (Token, bool, error) {
	var args map[string][]rawTok
	if m.HasParams {
		a, err := p.parseMacroArgs(invokeSpan, m)
		if err != nil {
			return Token{}, false, err
		}
		args = a
	}

	origin := &ExpansionOrigin{MacroName: name, DefiningSpan: m.DefiningSpan, InvokedAt: invokeSpan}

	if p.token != nil {
		p.macroStack.PushBack(*p.token)
	}

	expanded := make([]rawTok, 0, len(m.Body))
	for _, bt := range m.Body {
		if bt.Kind == cat.Text {
			if sub, ok := args[bt.Span.Extract()]; ok {
				for _, a := range sub {
					a.Origin = origin
					expanded = append(expanded, a)
				}
				continue
			}
		}
		bt.Origin = origin
		expanded = append(expanded, bt)
	}

	for i := len(expanded) - 1; i >= 0; i-- {
		p.macroStack.PushBack(expanded[i])
	}
	p.advance()
	return Token{}, false, nil
}
