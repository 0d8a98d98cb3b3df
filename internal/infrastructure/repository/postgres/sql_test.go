package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: true},
		{name: "connection class", err: &pq.Error{Code: "08006"}, want: true},
		{name: "serialization", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: fmt.Errorf("insert: %w", &pq.Error{Code: "40P01"}), want: true},
		{name: "fk violation", err: &pq.Error{Code: "23503"}, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransient(tc.err); got != tc.want {
				t.Fatalf("isTransient(%v) = %t, want %t", tc.err, got, tc.want)
			}
		})
	}
}

func TestPersistence(t *testing.T) {
	t.Run("wraps driver errors", func(t *testing.T) {
		err := persistence(fmt.Errorf("select: %w", &pq.Error{Code: "08006"}))
		if !errors.Is(err, draft.ErrPersistence) {
			t.Fatalf("expected persistence error, got %v", err)
		}
	})

	t.Run("leaves constraint violations permanent", func(t *testing.T) {
		for _, code := range []pq.ErrorCode{"23505", "23514"} {
			err := persistence(fmt.Errorf("insert: %w", &pq.Error{Code: code}))
			if errors.Is(err, draft.ErrPersistence) {
				t.Fatalf("code %s: expected plain error, got persistence %v", code, err)
			}
			if pqCode(err) != string(code) {
				t.Fatalf("code %s: lost driver error, got %v", code, err)
			}
		}
	})

	t.Run("keeps domain errors", func(t *testing.T) {
		in := draft.IntegrityError("player %d missing", 1)
		if err := persistence(fmt.Errorf("insert: %w", in)); !errors.Is(err, draft.ErrIntegrity) || errors.Is(err, draft.ErrPersistence) {
			t.Fatalf("expected integrity error, got %v", err)
		}
	})

	t.Run("keeps no rows", func(t *testing.T) {
		if err := persistence(sql.ErrNoRows); !isNotFound(err) {
			t.Fatalf("expected no rows, got %v", err)
		}
	})
}
