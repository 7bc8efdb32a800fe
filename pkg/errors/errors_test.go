package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeEmptyCart, http.StatusUnprocessableEntity},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeTransaction, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "persist order")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be detectable")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestInsufficientStockCarriesDetails(t *testing.T) {
	t.Parallel()

	err := InsufficientStock("p-123", 2)
	if err.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", err.Code())
	}
	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["product_id"] != "p-123" || details["available"] != 2 {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDumpFieldsOmitsEmptyValues(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeConflict, stdErrors.New("duplicate line"), "add cart line")
	fields := Dump(err).Fields()

	if fields["error_code"] != CodeConflict {
		t.Fatalf("unexpected error_code %v", fields["error_code"])
	}
	if _, ok := fields["error_chain"]; !ok {
		t.Fatal("expected error_chain to be present")
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatal("expected pg fields to be omitted for non-driver errors")
	}
}
