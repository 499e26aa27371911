package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatal("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "persist settings")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to unwrap to cause")
	}
	if got := As(wrapped); got == nil || got.Code() != CodeDependency {
		t.Fatalf("As() should surface the typed error, got %v", got)
	}

	if Wrap(CodeInternal, nil, "no cause").Unwrap() != nil {
		t.Fatal("wrapping nil should produce no cause")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("low level")
	err := Wrap(CodeDependency, cause, "mid level")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected code in dump, got %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", dump.Chain)
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_admin_users_username",
		TableName:      "admin_users",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, cause, "save admin users")

	dump := Dump(err)
	if dump.PGCode != "23505" {
		t.Fatalf("expected pg code in dump, got %q", dump.PGCode)
	}
	if dump.PGConstraint != "idx_admin_users_username" {
		t.Fatalf("expected constraint in dump, got %q", dump.PGConstraint)
	}
	if dump.PGTable != "admin_users" {
		t.Fatalf("expected table in dump, got %q", dump.PGTable)
	}
}
