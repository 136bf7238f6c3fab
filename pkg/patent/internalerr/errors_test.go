package internalerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsFieldError(t *testing.T) {
	fe := &FieldError{Path: "bib/date", Value: "201801"}

	wrapped := fmt.Errorf("claims: %w", fe)
	got, ok := AsFieldError(wrapped)
	if !ok || got.Path != "bib/date" {
		t.Fatalf("AsFieldError(wrapped) = (%v, %v)", got, ok)
	}

	if _, ok := AsFieldError(errors.New("plain")); ok {
		t.Error("Plain error should not match")
	}
	if _, ok := AsFieldError(nil); ok {
		t.Error("nil should not match")
	}
}

func TestDocumentErrorUnwrap(t *testing.T) {
	de := &DocumentError{DocID: "9000001", Err: ErrStreamTruncated}
	if !errors.Is(de, ErrStreamTruncated) {
		t.Error("DocumentError should unwrap to its cause")
	}

	fe := &FieldError{Path: "number-of-claims", Value: "x", Err: errors.New("atoi")}
	de = &DocumentError{DocID: "9000001", Err: fe}
	if _, ok := AsFieldError(de); !ok {
		t.Error("FieldError should be reachable through DocumentError")
	}
}
