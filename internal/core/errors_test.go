package core

import (
	"errors"
	"fmt"
	"testing"
)

const testOp = "core.errors_test"

func TestAppErrorExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  *AppError
		want int
	}{
		{name: "nil", err: nil, want: 1},
		{
			name: "internal",
			err:  NewTaskInternalError("int", nil, testOp),
			want: 1,
		},
		{
			name: "validation",
			err:  NewTaskValidationError("bad title", nil, testOp),
			want: 2,
		},
		{
			name: "not found",
			err:  NewTaskNotFoundError(7, testOp),
			want: 3,
		},
		{
			name: "storage",
			err:  NewTaskStorageError("save", errors.New("disk full"), testOp),
			want: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.ExitCode(); got != tc.want {
				t.Fatalf("ExitCode: got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAppErrorPublicMessage(t *testing.T) {
	err := NewTaskInternalError(
		"internal salamander",
		errors.New("your bad"), testOp,
	)
	if got := err.PublicMessage(); got != "internal error" {
		t.Fatalf("PublicMessage: got %q, want internal error"+
			"because internal error not public", got)
	}

	safe := NewTaskNotFoundError(12, testOp)
	if got := safe.PublicMessage(); got != "task with ID 12 not found" {
		t.Fatalf("PublicMessage: got %q, want task with ID 12 not found", got)
	}
	if safe.Meta["task_id"] != "12" {
		t.Fatalf("not found meta: got %v, want task_id=12", safe.Meta)
	}
	if safe.Operation != testOp {
		t.Fatalf("not found operation: got %q, want %q", safe.Operation, testOp)
	}
}

func TestAppErrorCloneImmutability(t *testing.T) {
	root := NewTaskValidationError("bad input", nil, "")
	new := root.WithOper("core.errors_test")
	if new == root {
		t.Fatal("WithOper should copy the error")
	}
	if root.Operation != "" {
		t.Fatalf("root error mutated, but it shouldn't: %v", root)
	}
	if new.Operation != "core.errors_test" {
		t.Fatalf("new error operation wrong: %v", new)
	}

	new = root.WithMeta("key", "val1")
	if new.Meta["key"] != "val1" {
		t.Fatalf("got new.Meta[key] = %q, want val1", new.Meta["key"])
	}
	if root.Meta != nil {
		t.Fatalf("root.Meta should remain nil, got %v", root.Meta)
	}

	next := new.WithMeta("some", "val2")
	if len(new.Meta) != 1 {
		t.Fatalf("new.Meta size should remain 1, got %d", len(new.Meta))
	}
	if len(next.Meta) != 2 {
		t.Fatalf("next.Meta size should be 2, got %d", len(next.Meta))
	}
}

func TestAppErrorErrorsIsAndAs(t *testing.T) {
	root := NewTaskNotFoundError(1, "core.errors_test")
	w := fmt.Errorf("wrap: %w", root)
	if !errors.Is(w, root) {
		t.Fatalf("errors.Is should match AppError codes")
	}
	e, ok := AsAppError(w)
	if !ok {
		t.Fatalf("AsAppError failed")
	}
	if e.Code != ErrorCodeNotFound {
		t.Fatalf("new code = %v, want %v", e.Code, ErrorCodeNotFound)
	}
	if !HasCode(w, ErrorCodeNotFound) || HasCode(w, ErrorCodeStorage) {
		t.Fatalf("HasCode mismatch for %v", w)
	}
	if HasCode(errors.New("plain"), ErrorCodeInternal) {
		t.Fatalf("HasCode should be false for non AppError")
	}
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewTaskStorageError("save tasks", cause, testOp)
	if !errors.Is(err, cause) {
		t.Fatalf("storage error should unwrap to cause")
	}
	if got := err.Error(); got != "save tasks: disk full" {
		t.Fatalf("Error: got %q", got)
	}
}

func TestErrorCodeNames(t *testing.T) {
	if got := ErrorCodeNotFound.String(); got != "not_found" {
		t.Fatalf("String: got %q, want not_found", got)
	}
	if got := ErrorCode(42).String(); got != "code(42)" {
		t.Fatalf("String: got %q, want code(42)", got)
	}
	if got := ErrorCode(42).ExitCode(); got != 1 {
		t.Fatalf("ExitCode: got %d, want 1", got)
	}

	bare := NewAppErrorBuilder(ErrorCodeStorage).Err(errors.New("disk full")).Build()
	if got := bare.Error(); got != "storage: disk full" {
		t.Fatalf("Error: got %q", got)
	}
	if got := bare.PublicMessage(); got != "internal error" {
		t.Fatalf("PublicMessage: got %q, want internal error", got)
	}
}

func TestAppErrorBuilderReuse(t *testing.T) {
	b := NewAppErrorBuilder(ErrorCodeValidation).Meta("field", "title")
	first := b.Build()
	second := b.Meta("field", "description").Build()

	if first.Meta["field"] != "title" {
		t.Fatalf("first error meta changed: %v", first.Meta)
	}
	if second.Meta["field"] != "description" {
		t.Fatalf("second error meta: got %v", second.Meta)
	}
}
