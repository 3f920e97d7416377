package preproc

// Defcond is the per-level state of an `ifdef`/`ifndef` conditional group
// (§3, GLOSSARY). The conditional stack is a LIFO sequence of these.
type Defcond int

const (
	// Enabled means tokens in this branch are emitted.
	Enabled Defcond = iota
	// Disabled means tokens in this branch are swallowed, but a later
	// `elsif`/`else` in the same group may still flip it to Enabled.
	Disabled
	// Done means a prior branch of this group already matched; no
	// subsequent branch of the group may enable.
	Done
)

func (d Defcond) String() string {
	switch d {
	case Enabled:
		return "Enabled"
	case Disabled:
		return "Disabled"
	case Done:
		return "Done"
	default:
		return "Defcond(?)"
	}
}

// Directives holds the sticky directive state that persists across the
// single line it was set on (§3).
type Directives struct {
	Celldefine bool
	// DefaultNettype is nil both when unset and when explicitly set to
	// "none" -- the spec's data model treats both as the None variant of
	// option<(CatKind,Span)>.
	DefaultNettype *Token
}

// active reports whether the top of the conditional stack currently allows
// emission (§4.1's "Inactivity rule"): an empty stack, or a top of Enabled.
func (p *Preprocessor) active() bool {
	if len(p.defcondStack) == 0 {
		return true
	}
	return p.defcondStack[len(p.defcondStack)-1] == Enabled
}

// pushIfdef implements `ifdef (sign=true) and `ifndef (sign=false).
func (p *Preprocessor) pushIfdef(name string, sign bool) {
	if !p.active() {
		p.defcondStack = append(p.defcondStack, Done)
		return
	}
	_, defined := p.macroDefs[name]
	if defined == sign {
		p.defcondStack = append(p.defcondStack, Enabled)
	} else {
		p.defcondStack = append(p.defcondStack, Disabled)
	}
}

// popForElsif implements `elsif against a new guard name.
func (p *Preprocessor) popForElsif(name string, span Span) error {
	n := len(p.defcondStack)
	if n == 0 {
		return p.fatalf(span, "`elsif without matching `ifdef or `ifndef")
	}
	switch p.defcondStack[n-1] {
	case Enabled, Done:
		p.defcondStack[n-1] = Done
	case Disabled:
		_, defined := p.macroDefs[name]
		if defined {
			p.defcondStack[n-1] = Enabled
		} else {
			p.defcondStack[n-1] = Disabled
		}
	}
	return nil
}

// popForElse implements `else.
func (p *Preprocessor) popForElse(span Span) error {
	n := len(p.defcondStack)
	if n == 0 {
		return p.fatalf(span, "`else without matching `ifdef or `ifndef")
	}
	switch p.defcondStack[n-1] {
	case Disabled:
		p.defcondStack[n-1] = Enabled
	case Enabled, Done:
		p.defcondStack[n-1] = Done
	}
	return nil
}

// popForEndif implements `endif.
func (p *Preprocessor) popForEndif(span Span) error {
	n := len(p.defcondStack)
	if n == 0 {
		return p.fatalf(span, "`endif without matching `ifdef or `ifndef")
	}
	p.defcondStack = p.defcondStack[:n-1]
	return nil
}
