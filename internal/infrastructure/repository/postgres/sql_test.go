package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get team: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("connection reset")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	t.Run("matches unique violation code", func(t *testing.T) {
		err := fmt.Errorf("create team: %w", &pq.Error{Code: "23505", Message: "duplicate key value"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "violates foreign key constraint"}
		if isUniqueViolation(err) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("duplicate key value")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestNullHelpers(t *testing.T) {
	t.Parallel()

	if got := nullStringToPtr(sql.NullString{}); got != nil {
		t.Fatalf("expected nil for null string, got %q", *got)
	}
	if got := nullStringToPtr(sql.NullString{String: "01:10", Valid: true}); got == nil || *got != "01:10" {
		t.Fatalf("unexpected string pointer: %v", got)
	}
	if got := nullInt32ToIntPtr(sql.NullInt32{}); got != nil {
		t.Fatalf("expected nil for null int, got %d", *got)
	}
	if got := nullInt32ToIntPtr(sql.NullInt32{Int32: 49, Valid: true}); got == nil || *got != 49 {
		t.Fatalf("unexpected int pointer: %v", got)
	}

	data := "7"
	if got := ptrToNullString(&data); !got.Valid || got.String != "7" {
		t.Fatalf("unexpected null string: %+v", got)
	}
	if got := ptrToNullString(nil); got.Valid {
		t.Fatalf("expected invalid null string for nil pointer")
	}
}
