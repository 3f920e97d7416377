package reporter

import (
	"fmt"
	"sync"

	"github.com/sv-tools/svpp/source"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, the current operation aborts with that error. If
// the reporter returns nil, the operation continues, allowing as many errors
// as possible to be collected before giving up.
//
// The preprocessor never calls this with a nil-returning reporter in mind:
// per spec, every directive error is fatal at the iterator boundary, so in
// practice the first Error call's return value is what the caller sees.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. Warnings
// never abort the current operation.
type WarningReporter func(ErrorWithPos)

// Reporter is a type that handles reporting both errors and warnings.
type Reporter interface {
	// Error is called when the given error is encountered and needs to be
	// reported to the calling program. If this function returns non-nil then
	// the operation aborts immediately with the given error. If it returns
	// nil, the operation continues.
	Error(ErrorWithPos) error
	// Warning is called when the given warning is encountered. A warning
	// never aborts the operation.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on
// error or warning.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is used by the preprocessor and evaluator to report and latch
// errors, and to emit warnings (such as "cast ignored during constant
// evaluation").
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings using
// the given reporter. A nil reporter discards warnings and latches the first
// error it sees.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf handles an error with the given source position, creating the
// error using the given message format and arguments.
//
// If the handler has already latched an error, that same error is returned
// and the given error is not reported.
func (h *Handler) HandleErrorf(pos source.SourcePos, format string, args ...interface{}) error {
	return h.handle(Errorf(pos, format, args...))
}

// HandleErrorfWithNotes is like HandleErrorf, but attaches notes to the
// diagnostic (e.g. the declaration and instantiation sites of a parameter
// that was never assigned a value).
func (h *Handler) HandleErrorfWithNotes(pos source.SourcePos, notes []Note, format string, args ...interface{}) error {
	return h.handle(ErrorfWithNotes(pos, notes, format, args...))
}

func (h *Handler) handle(ewp ErrorWithPos) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(ewp)
	h.err = err
	return err
}

// HandleError handles the given error. If err is an ErrorWithPos, it is
// reported and this function returns the error returned by the reporter. If
// err is not an ErrorWithPos, the current operation aborts immediately.
//
// If the handler has already latched an error, that same error is returned
// and the given error is not reported.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning handles a warning with the given source position and notes.
func (h *Handler) HandleWarning(pos source.SourcePos, notes []Note, err error) {
	// No lock needed; warnings don't interact with the latched-error fields.
	h.reporter.Warning(errorWithSourcePos{pos: pos, underlying: err, notes: notes})
}

// HandleWarningf is a formatting convenience around HandleWarning.
func (h *Handler) HandleWarningf(pos source.SourcePos, format string, args ...interface{}) {
	h.HandleWarning(pos, nil, fmt.Errorf(format, args...))
}

// Error returns the handler's latched result. If any errors were reported
// but the reporter never returned a non-nil error, ErrInvalidSource is
// returned.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter,
// without substituting ErrInvalidSource.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
