package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorHelpers(t *testing.T) {
	wrap := func(code, constraint string) error {
		return fmt.Errorf("create booking: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
	}

	cases := []struct {
		name          string
		err           error
		unique        bool
		constraint    string
		exclusion     bool
		serialization bool
	}{
		{
			name:       "unique on name",
			err:        wrap("23505", "function_types_name_key"),
			unique:     true,
			constraint: "function_types_name_key",
		},
		{
			name:       "unique on slug",
			err:        wrap("23505", "function_types_slug_key"),
			unique:     true,
			constraint: "function_types_slug_key",
		},
		{
			name:       "accepted overlap",
			err:        wrap("23P01", "bookings_no_accepted_overlap"),
			exclusion:  true,
			constraint: "bookings_no_accepted_overlap",
		},
		{name: "serialization failure", err: wrap("40001", ""), serialization: true},
		{name: "deadlock", err: wrap("40P01", ""), serialization: true},
		{name: "check violation", err: wrap("23514", "bookings_time_order"), constraint: "bookings_time_order"},
		{name: "plain error", err: errors.New("connection reset")},
		{name: "nil", err: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			constraint, unique := IsUniqueViolation(tc.err)
			assert.Equal(t, tc.unique, unique)
			assert.Equal(t, tc.constraint, constraint)
			assert.Equal(t, tc.exclusion, IsExclusionViolation(tc.err))
			assert.Equal(t, tc.serialization, IsSerializationFailure(tc.err))
		})
	}
}
