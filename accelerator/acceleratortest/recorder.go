// Package acceleratortest provides utilities for testing the users of
// the accelerator API.
package acceleratortest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/hwscaler/accelerator"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected failure")

type Op string

const (
	OpInit                 = Op("Init")
	OpResourceCreate       = Op("ResourceCreate")
	OpResourceDelete       = Op("ResourceDelete")
	OpResourceWriteData    = Op("ResourceWriteData")
	OpResourceReadData     = Op("ResourceReadData")
	OpResourceSetPalette   = Op("ResourceSetPalette")
	OpDisplayOpenOffscreen = Op("DisplayOpenOffscreen")
	OpDisplayClose         = Op("DisplayClose")
	OpUpdateStart          = Op("UpdateStart")
	OpElementAdd           = Op("ElementAdd")
	OpElementRemove        = Op("ElementRemove")
	OpUpdateSubmitSync     = Op("UpdateSubmitSync")
)

// AllOps lists every operation of the accelerator API.
var AllOps = []Op{
	OpInit,
	OpResourceCreate,
	OpResourceDelete,
	OpResourceWriteData,
	OpResourceReadData,
	OpResourceSetPalette,
	OpDisplayOpenOffscreen,
	OpDisplayClose,
	OpUpdateStart,
	OpElementAdd,
	OpElementRemove,
	OpUpdateSubmitSync,
}

// Call is one recorded call. Handle is the handle created or consumed by
// the call (if any).
type Call struct {
	Op     Op
	Handle uint32
	Err    error
}

func (c Call) String() string {
	if c.Err != nil {
		return fmt.Sprintf("%s(%d): %v", c.Op, c.Handle, c.Err)
	}
	return fmt.Sprintf("%s(%d)", c.Op, c.Handle)
}

type failure struct {
	Op  Op
	Nth int
	Err error
}

type handleKind string

type handleKey struct {
	Kind   handleKind
	Handle uint32
}

// Recorder wraps an accelerator, records every call and injects failures.
type Recorder struct {
	Backend accelerator.Accelerator
	Calls   []Call

	counts   map[Op]int
	failures []failure
	acquired map[handleKey]int
	released map[handleKey]int
}

var _ accelerator.Accelerator = (*Recorder)(nil)

func NewRecorder(backend accelerator.Accelerator) *Recorder {
	r := &Recorder{Backend: backend}
	r.Reset()
	return r
}

func (r *Recorder) String() string {
	return fmt.Sprintf("Recorder(%s)", r.Backend)
}

// Reset forgets the recorded calls and the injected failures.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.counts = map[Op]int{}
	r.failures = nil
	r.acquired = map[handleKey]int{}
	r.released = map[handleKey]int{}
}

// FailOn makes the nth (starting from 1) call of op fail with err
// (ErrInjected if nil) without reaching the backend.
func (r *Recorder) FailOn(op Op, nth int, err error) *Recorder {
	if err == nil {
		err = ErrInjected
	}
	r.failures = append(r.failures, failure{Op: op, Nth: nth, Err: err})
	return r
}

// Count returns the amount of calls of op, including the failed ones.
func (r *Recorder) Count(op Op) int {
	return r.counts[op]
}

// Ops returns the recorded operations in the order of the calls.
func (r *Recorder) Ops() []Op {
	result := make([]Op, 0, len(r.Calls))
	for _, c := range r.Calls {
		result = append(result, c.Op)
	}
	return result
}

// Index returns the position of the first call of op with the given
// handle, or -1.
func (r *Recorder) Index(op Op, handle uint32) int {
	for idx, c := range r.Calls {
		if c.Op == op && c.Handle == handle {
			return idx
		}
	}
	return -1
}

// Dump returns a detailed human-readable representation of the calls.
func (r *Recorder) Dump() string {
	return spew.Sdump(r.Calls)
}

// Balance returns an error unless every successfully acquired handle had
// exactly one release attempt.
func (r *Recorder) Balance() error {
	var problems []string
	for key, count := range r.acquired {
		if released := r.released[key]; released != count {
			problems = append(problems, fmt.Sprintf("%s %d: acquired %d times, released %d times", key.Kind, key.Handle, count, released))
		}
	}
	for key, count := range r.released {
		if _, ok := r.acquired[key]; !ok {
			problems = append(problems, fmt.Sprintf("%s %d: released %d times, but never acquired", key.Kind, key.Handle, count))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

func (r *Recorder) begin(op Op) error {
	r.counts[op]++
	for _, f := range r.failures {
		if f.Op == op && f.Nth == r.counts[op] {
			return f.Err
		}
	}
	return nil
}

func (r *Recorder) record(op Op, handle uint32, err error) {
	r.Calls = append(r.Calls, Call{Op: op, Handle: handle, Err: err})
}

func (r *Recorder) acquire(kind handleKind, handle uint32) {
	r.acquired[handleKey{Kind: kind, Handle: handle}]++
}

func (r *Recorder) release(kind handleKind, handle uint32) {
	r.released[handleKey{Kind: kind, Handle: handle}]++
}
