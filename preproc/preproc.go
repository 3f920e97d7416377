// Package preproc implements the streaming directive engine described in
// §4.1 of the specification: it consumes a raw categorized token stream from
// one or more sources and produces a single flattened token stream after
// resolving file inclusion, textual macro definition/expansion, and
// conditional compilation. It performs no syntactic analysis beyond
// directive framing.
package preproc

import (
	"fmt"

	"github.com/sv-tools/svpp/cat"
	"github.com/sv-tools/svpp/internal/ext/slicesx"
	"github.com/sv-tools/svpp/internal/interval"
	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
)

// Span is the position type tokens and macros carry; an alias of
// source.Span so that preproc's public API doesn't force callers to import
// both packages for one type.
type Span = source.Span

// Token is the (CatKind, Span) pair the Preprocessor yields (§3, §6): either
// an original token from some (possibly included) source, or a token from a
// macro body, always carrying the span of wherever it textually originated.
type Token struct {
	Kind cat.Kind
	Span Span
}

// rawTok is the internal look-ahead representation. It carries the same
// (Kind, Span) pair the public Token does, plus the macro-expansion
// provenance tag described by ExpansionOrigin, which is stripped before the
// token is handed to callers via Next.
type rawTok struct {
	Kind   cat.Kind
	Span   Span
	Origin *ExpansionOrigin
}

func (t rawTok) token() Token { return Token{Kind: t.Kind, Span: t.Span} }

// Predefined is a (name, optional body) pair installed as a macro at
// construction time (§6). A nil Body yields a parameterless macro with an
// empty body; a non-nil Body is categorized against a synthesized anonymous
// source, exactly as any other macro body would be.
type Predefined struct {
	Name string
	Body *string
}

// ExpansionOrigin records that an emitted token came from the body of a
// macro expansion rather than directly from source text. This supplements
// the bare (CatKind, Span) stream with provenance a diagnostic can use to
// say "in expansion of `FOO, defined at ...".
type ExpansionOrigin struct {
	MacroName    string
	DefiningSpan Span
	InvokedAt    Span
}

// frame is a stream frame (§3): a source handle paired with the lexer
// currently iterating over it. Frames are stacked to support include
// nesting. after is the one token of look-ahead that was already pulled
// from the *enclosing* frame before this one was pushed (the token right
// after an `include's closing quote); it is replayed exactly once, as soon
// as this frame is exhausted, so inclusion reads as if the file's content
// were pasted in place without losing or reordering that look-ahead.
type frame struct {
	handle *source.Handle
	lex    *cat.Lexer
	after  *rawTok
}

// Preprocessor is the directive engine + macro store + inclusion stack
// described in §4.1. It is neither reentrant nor shareable across threads
// during a single pass (§5); a fresh instance is cheap, so the driver should
// construct one per root source rather than attempt to reuse one.
type Preprocessor struct {
	mgr     *source.Manager
	handler *reporter.Handler

	stack    []*frame
	contents []*source.Handle // never popped; keeps spans valid for the pass's lifetime

	token *rawTok // current one-token look-ahead; nil at end of input

	// macroStack is the look-ahead re-injection stack driving macro expansion
	// and the `__FILE__`/`__LINE__` single-token substitutions (§4.1.3): a
	// LIFO of pending tokens, popped in preference to the frame stack.
	macroStack slicesx.Queue[rawTok]
	macroDefs  map[string]*Macro

	defcondStack []Defcond
	dirs         Directives

	expansions interval.Map[int, ExpansionOrigin]
	emitCount  int

	fatal error // latched once set; Next() yields nothing further after it's reported
}

// New constructs a Preprocessor rooted at root, searching includePaths (via
// mgr) and pre-installing predefined as zero- or parameterless macros.
func New(mgr *source.Manager, root *source.Handle, handler *reporter.Handler, predefined []Predefined) *Preprocessor {
	p := &Preprocessor{
		mgr:       mgr,
		handler:   handler,
		stack:     []*frame{{handle: root, lex: cat.New(root.Text())}},
		contents:  []*source.Handle{root},
		macroDefs: make(map[string]*Macro),
	}
	for _, pre := range predefined {
		p.macroDefs[pre.Name] = p.makePredefinedMacro(pre)
	}
	p.advance()
	return p
}

func (p *Preprocessor) makePredefinedMacro(pre Predefined) *Macro {
	m := &Macro{Name: pre.Name}
	if pre.Body == nil {
		return m
	}
	h := p.mgr.AddAnonymous(*pre.Body)
	p.contents = append(p.contents, h)
	lex := cat.New(h.Text())
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		m.Body = append(m.Body, rawTok{Kind: tok.Kind, Span: Span{Handle: h, Start: tok.Begin, End: tok.Begin + tok.Length}})
	}
	return m
}

// advance is the Advance primitive (§4.1): pop from macro_stack if
// non-empty; otherwise pull from the top stream frame, popping exhausted
// frames and retrying; token becomes nil only once the frame stack is
// empty.
func (p *Preprocessor) advance() {
	if tok, ok := p.macroStack.PopBack(); ok {
		p.token = &tok
		return
	}
	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		tok, ok := top.lex.Next()
		if !ok {
			p.stack = p.stack[:len(p.stack)-1]
			if top.after != nil {
				p.token = top.after
				return
			}
			continue
		}
		t := rawTok{Kind: tok.Kind, Span: Span{Handle: top.handle, Start: tok.Begin, End: tok.Begin + tok.Length}}
		p.token = &t
		return
	}
	p.token = nil
}

// pushFrame pushes a new include frame and retains its content handle for
// the lifetime of the pass (§4.1.2, §9 "Retained-content hazard"). after, if
// non-nil, is replayed once this frame is exhausted (see frame.after).
func (p *Preprocessor) pushFrame(h *source.Handle, after *rawTok) {
	p.stack = append(p.stack, &frame{handle: h, lex: cat.New(h.Text()), after: after})
	p.contents = append(p.contents, h)
}

// isSymbol reports whether t is a Symbol token for rune r.
func isSymbol(t rawTok, r rune) bool {
	return t.Kind == cat.Symbol && t.Span.Extract() == string(r)
}

// fatalf reports a fatal diagnostic and latches it; subsequent calls to
// Next() will yield nothing further (§4.1.4, §7).
func (p *Preprocessor) fatalf(span Span, format string, args ...interface{}) error {
	pos := span.Begin()
	err := p.handler.HandleErrorf(pos, format, args...)
	if err == nil {
		err = fmt.Errorf(format, args...)
	}
	p.fatal = err
	return err
}

// Next pulls the next emitted token from the flattened stream. ok is false
// once the root source (and every include it pulled in) is exhausted, or
// once a fatal diagnostic has been reported.
func (p *Preprocessor) Next() (Token, error, bool) {
	if p.fatal != nil {
		return Token{}, nil, false
	}

	for {
		if p.token == nil {
			return Token{}, nil, false
		}
		cur := *p.token

		if isSymbol(cur, '`') {
			tok, emitted, err := p.handleBacktick(cur.Span)
			if err != nil {
				return Token{}, err, true
			}
			if emitted {
				return tok, nil, true
			}
			continue
		}

		if p.active() {
			p.recordExpansionOrigin(cur)
			p.advance()
			return cur.token(), nil, true
		}
		p.advance()
	}
}

// All returns an idiomatic range-over-func view of the token stream. If a
// fatal diagnostic is hit, it is yielded exactly once as the final (Token{},
// err) pair before the sequence ends.
func (p *Preprocessor) All() func(yield func(Token, error) bool) {
	return func(yield func(Token, error) bool) {
		for {
			tok, err, ok := p.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !ok {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Err returns the latched fatal error, if any.
func (p *Preprocessor) Err() error {
	return p.fatal
}

// ExpansionOriginAt returns the macro-expansion provenance recorded for the
// emitted token at output index idx (0-based, in emission order), if that
// token came from a macro body rather than directly from source text.
func (p *Preprocessor) ExpansionOriginAt(idx int) (ExpansionOrigin, bool) {
	iv := p.expansions.Get(idx)
	if iv.Value == nil {
		return ExpansionOrigin{}, false
	}
	return *iv.Value, true
}

// recordExpansionOrigin tags the output slot about to be emitted with
// provenance, if the token being emitted came from a macro expansion.
func (p *Preprocessor) recordExpansionOrigin(cur rawTok) {
	if cur.Origin != nil {
		p.expansions.Insert(p.emitCount, p.emitCount, *cur.Origin)
	}
	p.emitCount++
}
