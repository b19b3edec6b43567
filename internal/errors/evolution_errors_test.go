package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolutionError_ErrorIncludesContext(t *testing.T) {
	err := NewOutOfRangeError("population", "Top", 12, 10)

	msg := err.Error()
	assert.Contains(t, msg, "[OUT_OF_RANGE:population] Top")
	assert.Contains(t, msg, "available=10, requested=12")
}

func TestWrapError_NilPassthrough(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryIO, "reporting", "write"))
}

func TestWrapError_Unwrap(t *testing.T) {
	base := stderrors.New("disk full")
	err := NewIOError("reporting", "WriteXLSX", base)

	assert.True(t, stderrors.Is(err, base))
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsCategory_FollowsChain(t *testing.T) {
	inner := NewArithmeticOverflowError("fitness", "ComputeFitness", "sum overflows uint64")
	outer := WrapError(inner, ErrorCategoryEvaluationPrecondition, "population", "EvaluateFitness")
	wrapped := fmt.Errorf("step 3: %w", outer)

	assert.True(t, IsCategory(wrapped, ErrorCategoryEvaluationPrecondition))
	assert.True(t, IsCategory(wrapped, ErrorCategoryArithmeticOverflow))
	assert.False(t, IsCategory(wrapped, ErrorCategoryConfiguration))
	assert.False(t, IsCategory(stderrors.New("plain"), ErrorCategoryConfiguration))

	cat, ok := CategoryOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorCategoryEvaluationPrecondition, cat)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.True(t, IsFatal(stderrors.New("unknown")))
	assert.True(t, IsFatal(NewConfigurationError("config", "Validate", "survivor count too large")))
	assert.False(t, IsFatal(NewReportingError("nats", "Publish", stderrors.New("no responders"))))
}

func TestErrorStats_Record(t *testing.T) {
	stats := NewErrorStats(2)
	stats.RecordError(NewReportingError("console", "Report", stderrors.New("a")))
	stats.RecordError(NewReportingError("console", "Report", stderrors.New("b")))
	stats.RecordError(NewIOError("excel", "Save", stderrors.New("c")))
	stats.RecordError(nil)

	assert.Equal(t, 3, stats.TotalErrors)
	assert.Equal(t, 2, stats.ErrorsByCategory[ErrorCategoryReporting])
	assert.Len(t, stats.RecentErrors, 2)
}
