// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, codes and batch aggregation

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid_configuration",
			code:    errors.ErrInvalidConfiguration,
			message: "path escapes the staging root",
			wantStr: "[INVALID_CONFIGURATION] path escapes the staging root",
		},
		{
			name:    "harvesting_failed",
			code:    errors.ErrHarvestingFailed,
			message: "no files found",
			wantStr: "[HARVESTING_FAILED] no files found",
		},
		{
			name:    "empty_message_uses_description",
			code:    errors.ErrStagingFailed,
			message: "",
			wantStr: "[STAGING_FAILED] staging failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrHarvestingFailed, "SourceFile path must be absolute: %q", "rel/path")
	assert.Equal(t, `SourceFile path must be absolute: "rel/path"`, err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("permission denied")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrStagingFailed, "copy failed")

		assert.Equal(t, errors.ErrStagingFailed, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[STAGING_FAILED] copy failed: permission denied", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrStagingFailed, "copy failed"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrStagingFailed, "copy %s", "x"))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrStagingFailed, "mkdir failed").
		WithDetail("path", "usr/bin")

	assert.Equal(t, "usr/bin", err.Details["path"])
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrHarvestingFailed, "error 1")
	err2 := errors.New(errors.ErrHarvestingFailed, "error 2")
	err3 := errors.New(errors.ErrStagingFailed, "error 3")

	assert.True(t, err1.Is(err2), "same code should be equal")
	assert.False(t, err1.Is(err3), "different codes should not be equal")
	assert.True(t, stderrors.Is(err1, err2))
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrInvalidConfiguration, "bad"),
			code:     errors.ErrInvalidConfiguration,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrInvalidConfiguration, "bad"),
			code:     errors.ErrStagingFailed,
			expected: false,
		},
		{
			name:     "wrapped_by_fmt",
			err:      fmt.Errorf("outer: %w", errors.New(errors.ErrHarvestingFailed, "inner")),
			code:     errors.ErrHarvestingFailed,
			expected: true,
		},
		{
			name:     "member_of_batch",
			err:      errors.Single(errors.New(errors.ErrStagingFailed, "inner")).Err(),
			code:     errors.ErrStagingFailed,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrStagingFailed,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrStagingFailed,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrHarvestingFailed,
		errors.GetErrorCode(errors.New(errors.ErrHarvestingFailed, "x")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("x")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestErrorsEmptyBatchIsNil(t *testing.T) {
	var batch errors.Errors
	assert.Equal(t, 0, batch.Len())
	assert.NoError(t, batch.Err())

	batch.Push(nil)
	batch.Extend(nil)
	assert.NoError(t, batch.Err())
}

func TestErrorsExtendFlattens(t *testing.T) {
	inner := &errors.Errors{}
	inner.Push(errors.New(errors.ErrHarvestingFailed, "one"))
	inner.Push(errors.New(errors.ErrHarvestingFailed, "two"))

	var batch errors.Errors
	batch.Push(errors.New(errors.ErrInvalidConfiguration, "zero"))
	batch.Extend(inner.Err())
	batch.Extend(fmt.Errorf("wrapped: %w", errors.New(errors.ErrStagingFailed, "three")))
	batch.Extend(stderrors.New("foreign"))

	require.Equal(t, 5, batch.Len())
	members := batch.Errors()
	assert.Equal(t, "zero", members[0].Message)
	assert.Equal(t, "one", members[1].Message)
	assert.Equal(t, "two", members[2].Message)
	assert.Equal(t, "three", members[3].Message)
	assert.Equal(t, errors.ErrUnknown, members[4].Code)
}

func TestErrorsErrorRendering(t *testing.T) {
	single := errors.Single(errors.New(errors.ErrStagingFailed, "only"))
	assert.Equal(t, "[STAGING_FAILED] only", single.Error())

	var batch errors.Errors
	batch.Push(errors.New(errors.ErrHarvestingFailed, "a"))
	batch.Push(errors.New(errors.ErrStagingFailed, "b"))
	assert.Equal(t,
		"2 errors occurred:\n  * [HARVESTING_FAILED] a\n  * [STAGING_FAILED] b",
		batch.Error())
}

func TestErrSnapshotsBatch(t *testing.T) {
	var batch errors.Errors
	batch.Push(errors.New(errors.ErrHarvestingFailed, "a"))
	err := batch.Err()

	batch.Push(errors.New(errors.ErrHarvestingFailed, "b"))

	var got *errors.Errors
	require.True(t, stderrors.As(err, &got))
	assert.Equal(t, 1, got.Len())
}

func TestPartition(t *testing.T) {
	var errs errors.Errors
	out := errors.Partition([]int{1, 2, 3, 4}, &errs, func(i int) (int, error) {
		if i%2 == 0 {
			return 0, errors.Newf(errors.ErrHarvestingFailed, "even %d", i)
		}
		return i * 10, nil
	})

	assert.Equal(t, []int{10, 30}, out)
	require.Equal(t, 2, errs.Len())
	assert.Equal(t, "even 2", errs.Errors()[0].Message)
	assert.Equal(t, "even 4", errs.Errors()[1].Message)
}

func TestCollect(t *testing.T) {
	calls := 0
	err := errors.Collect(
		func() error { calls++; return errors.New(errors.ErrStagingFailed, "first") },
		func() error { calls++; return nil },
		func() error { calls++; return errors.New(errors.ErrStagingFailed, "third") },
	)

	assert.Equal(t, 3, calls)
	var batch *errors.Errors
	require.True(t, stderrors.As(err, &batch))
	assert.Equal(t, 2, batch.Len())

	assert.NoError(t, errors.Collect(func() error { return nil }))
}
