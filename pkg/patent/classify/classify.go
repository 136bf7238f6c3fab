// Package classify normalizes raw national classification codes and
// accumulates the canonical main-class/subclass sets for a whole run.
package classify

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Normalize splits a raw classification code into its canonical main class
// and subclass id.
//
// The first 3 characters (spaces stripped) are the main-class key. The rest,
// spaces and leading zeros stripped, is the subclass suffix; a "." is
// inserted after the 3rd suffix character unless the remainder starts with an
// uppercase letter, and removed again when the suffix opens with three
// uppercase letters (cross-reference subclasses are not dot-decimal).
// The subclass id is main + "/" + suffix. An empty suffix yields ok=false:
// the main class is still canonical but no subclass row exists.
func Normalize(raw string) (main, subID string, ok bool) {
	if len(raw) < 3 {
		return "", "", false
	}
	main = strings.ReplaceAll(raw[:3], " ", "")
	suffix := strings.ReplaceAll(raw[3:], " ", "")
	suffix = strings.TrimLeft(suffix, "0")
	if len(suffix) > 3 && !isUpper(suffix[3]) {
		suffix = suffix[:3] + "." + suffix[3:]
	}
	if len(suffix) >= 3 && isUpper(suffix[0]) && isUpper(suffix[1]) && isUpper(suffix[2]) {
		suffix = strings.ReplaceAll(suffix, ".", "")
	}
	if suffix == "" {
		return main, "", false
	}
	return main, main + "/" + suffix, true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// ClassWriter persists the canonical class sets.
type ClassWriter interface {
	FlushClasses(ctx context.Context, mains, subs []string) error
}

// Accumulator is the corpus-scope canonical class set. It is owned by the
// run (never package state), shared by every in-flight document, and flushed
// once at end of run.
type Accumulator struct {
	mu    sync.Mutex
	mains map[string]struct{}
	subs  map[string]struct{}
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		mains: make(map[string]struct{}),
		subs:  make(map[string]struct{}),
	}
}

// RecordMain adds a canonical main-class key; no-op when already present.
func (a *Accumulator) RecordMain(id string) {
	if id == "" {
		return
	}
	a.mu.Lock()
	a.mains[id] = struct{}{}
	a.mu.Unlock()
}

// RecordSub adds a canonical subclass id.
func (a *Accumulator) RecordSub(id string) {
	if id == "" {
		return
	}
	a.mu.Lock()
	a.subs[id] = struct{}{}
	a.mu.Unlock()
}

// Len reports the accumulated set sizes.
func (a *Accumulator) Len() (mains, subs int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mains), len(a.subs)
}

// Flush writes both sets once. Sorted for stable output; insertion order is
// irrelevant by construction.
func (a *Accumulator) Flush(ctx context.Context, w ClassWriter) error {
	a.mu.Lock()
	mains := make([]string, 0, len(a.mains))
	for id := range a.mains {
		mains = append(mains, id)
	}
	subs := make([]string, 0, len(a.subs))
	for id := range a.subs {
		subs = append(subs, id)
	}
	a.mu.Unlock()

	sort.Strings(mains)
	sort.Strings(subs)
	return w.FlushClasses(ctx, mains, subs)
}
