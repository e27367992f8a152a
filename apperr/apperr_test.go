package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := E(NotFound, "item not found")
	if KindOf(err) != NotFound {
		t.Errorf("KindOf() = %v, want NotFound", KindOf(err))
	}

	// Kinds survive wrapping with fmt.Errorf
	wrapped := fmt.Errorf("loading item: %w", err)
	if KindOf(wrapped) != NotFound {
		t.Errorf("KindOf(wrapped) = %v, want NotFound", KindOf(wrapped))
	}

	if KindOf(errors.New("plain")) != Internal {
		t.Error("KindOf(plain error) should default to Internal")
	}
	if KindOf(nil) != Internal {
		t.Error("KindOf(nil) should default to Internal")
	}
}

func TestIs(t *testing.T) {
	err := Ef(Conflict, "duplicate request for item %s", "item-1")
	if !Is(err, Conflict) {
		t.Error("Is() should match the error's kind")
	}
	if Is(err, NotFound) {
		t.Error("Is() should not match a different kind")
	}
	if Is(nil, Internal) {
		t.Error("Is(nil) should be false")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(StorageError, "uploading image", cause)

	if !errors.Is(err, cause) {
		t.Error("Wrap() should keep the cause in the chain")
	}
	if KindOf(err) != StorageError {
		t.Errorf("KindOf() = %v, want StorageError", KindOf(err))
	}
}

func TestMessage(t *testing.T) {
	if got := Message(E(InvalidInput, "title is required")); got != "title is required" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(errors.New("boom")); got != "boom" {
		t.Errorf("Message(plain) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Internal, "internal"},
		{NotFound, "not_found"},
		{InvalidInput, "invalid_input"},
		{InvalidState, "invalid_state"},
		{PermissionDenied, "permission_denied"},
		{Conflict, "conflict"},
		{InvalidCredential, "invalid_credential"},
		{CorruptState, "corrupt_state"},
		{StorageError, "storage_error"},
	}
	for _, tt := range tests {
		if tt.kind.String() != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, tt.kind.String(), tt.want)
		}
	}
}
