// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"strings"
	"sync"
)

// Reporter is used to accumulate and report errors while parsing. Every code
// is fatal unless named in the non-fatal set given to NewReporter, in which
// case Report returns nil and the caller may continue. The accumulated set is
// shown to the user when the run ends.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions.
	Reported() []Exception
	// Err returns the accumulated exceptions as a single error, or nil when
	// nothing was reported.
	Err() error
}

// NewReporter returns a concurrent-safe implementation of Reporter.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal)+len(nonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	return r.reported
}

func (r *reporter) Err() error {
	if len(r.reported) < 1 {
		return nil
	}
	return Multi(append([]Exception(nil), r.reported...))
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Reported()
}

func (r *reporterLock) Err() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Err()
}

// Multi is a non-empty set of exceptions reported during one run.
type Multi []Exception

func (self Multi) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

// Unwrap exposes the members to errors.Is and errors.As.
func (self Multi) Unwrap() []error {
	errs := make([]error, 0, len(self))
	for _, e := range self {
		errs = append(errs, e)
	}
	return errs
}
