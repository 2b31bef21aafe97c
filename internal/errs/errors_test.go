package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrKindInvalidFieldType, "column is not a lookup"),
			want: "[invalid_field_type] column is not a lookup",
		},
		{
			name: "with cause",
			err:  Wrap(ErrKindConnectionFailed, "ping failed", cause),
			want: "[connection_failed] ping failed: dial tcp: connection refused",
		},
		{
			name: "formatted",
			err:  Newf(ErrKindUnsupported, "unsupported dialect %q", "oracle"),
			want: `[unsupported_operation] unsupported dialect "oracle"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"not found", New(ErrKindNotFound, "no such column"), IsNotFound, true},
		{"unsupported", New(ErrKindUnsupported, "no aggregation"), IsUnsupported, true},
		{"invalid field type", New(ErrKindInvalidFieldType, "bad column"), IsInvalidFieldType, true},
		{"delivery failed", New(ErrKindDeliveryFailed, "http 500"), IsDeliveryFailed, true},
		{"wrong predicate", New(ErrKindNotFound, "no such column"), IsUnsupported, false},
		{"plain error", errors.New("boom"), IsNotFound, false},
		{"nil error", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(tt.err))
		})
	}
}

func TestPredicatesTraverseWrapping(t *testing.T) {
	inner := New(ErrKindUnsupported, "group/sort by attachment not supported")
	outer := fmt.Errorf("building lookup for %q: %w", "fldAttach", inner)

	assert.True(t, IsUnsupported(outer))
	assert.False(t, IsNotFound(outer))

	var e *Error
	require.True(t, errors.As(outer, &e))
	assert.Equal(t, ErrKindUnsupported, e.Kind)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := Wrap(ErrKindTimeout, "query timed out", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsTimeout(err))
}
