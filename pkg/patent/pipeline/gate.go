package pipeline

import (
	"strconv"
	"strings"

	"github.com/patentflow/patentflow/pkg/patent/store"
)

// Decision is the versioning gate's verdict for one already-stored document.
type Decision int

const (
	// Insert: no stored version exists.
	Insert Decision = iota
	// Supersede: delete the stored version, then insert.
	Supersede
	// Skip: the stored version wins.
	Skip
)

func (d Decision) String() string {
	switch d {
	case Insert:
		return "insert"
	case Supersede:
		return "supersede"
	default:
		return "skip"
	}
}

// FileDateToken condenses a source filename to its digits as an integer, the
// comparable date token ("ipg180109.xml" -> 180109). ok is false when the
// name carries no digits.
func FileDateToken(filename string) (int, bool) {
	var b strings.Builder
	for _, r := range filename {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

// Decide applies the versioning decision table. newTok is the date token of
// the file being processed, existing the stored document's provenance. File
// date decides, not processing order: an older file replayed after a newer
// one never overwrites it. Documents whose source file never reached
// finished (a crashed or interrupted run) are eligible under force.
func Decide(newTok int, existing store.ExistingDoc, force, reprocessAll bool) Decision {
	oldTok, _ := FileDateToken(existing.Filename)
	switch {
	case newTok > oldTok:
		return Supersede
	case existing.FileStatus != store.StatusFinished && force:
		return Supersede
	case newTok >= oldTok && reprocessAll && force:
		return Supersede
	default:
		return Skip
	}
}
