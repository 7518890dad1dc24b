package testrunner

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{
			name: "nil is a pass",
			err:  nil,
			want: Outcome{Status: testreport.StatusPassed},
		},
		{
			name: "skip with reason",
			err:  Skip("reason X"),
			want: Outcome{Status: testreport.StatusSkipped, Message: "reason X"},
		},
		{
			name: "skip without reason",
			err:  Skip(""),
			want: Outcome{Status: testreport.StatusSkipped, Message: ""},
		},
		{
			name: "failure with message",
			err:  Failf("expected %d, got %d", 1, 2),
			want: Outcome{Status: testreport.StatusFailed, Message: "expected 1, got 2"},
		},
		{
			name: "failure without message uses default",
			err:  Fail(""),
			want: Outcome{Status: testreport.StatusFailed, Message: DefaultFailureMessage},
		},
		{
			name: "wrapped failure",
			err:  fmt.Errorf("context: %w", Fail("inner")),
			want: Outcome{Status: testreport.StatusFailed, Message: "inner"},
		},
		{
			name: "skip wins over failure",
			err:  errors.Join(Fail("bad"), Skip("later")),
			want: Outcome{Status: testreport.StatusSkipped, Message: "later"},
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: Outcome{Status: testreport.StatusErrored, Message: ErrorPrefix + "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAssert(t *testing.T) {
	assert.NoError(t, Assert(true, "unused"))

	err := Assert(false, "response must be ok")
	assert.Equal(t, Outcome{Status: testreport.StatusFailed, Message: "response must be ok"}, Classify(err))
}

func TestApplyTimeout(t *testing.T) {
	limit := time.Second

	assert.Equal(t, Passed(), applyTimeout(Passed(), limit, limit), "exactly at the limit still passes")
	assert.Equal(t, Skipped("exceeded the 1.0 s time limit"), applyTimeout(Passed(), 1500*time.Millisecond, limit))
	assert.Equal(t, Errored("x"), applyTimeout(Errored("x"), 2*limit, limit))
	assert.Equal(t, Skipped("own reason"), applyTimeout(Skipped("own reason"), 2*limit, limit))
}

func TestRecoveredError(t *testing.T) {
	assert.Equal(t, "panic: 42", recoveredError(42).Error())

	sentinel := errors.New("sentinel")
	assert.Same(t, sentinel, recoveredError(sentinel))
}

func TestClassify_InvalidUTF8SurvivesStorage(t *testing.T) {
	// Arrange
	outcome := Classify(errors.New("x\xff\xfey"))
	start := time.Unix(1700000000, 0)
	report := testreport.NewReport([]testreport.Result{
		{Name: "broken output", Group: "Suite", Status: outcome.Status, Message: outcome.Message},
	}, start, start)

	// Act
	var buf bytes.Buffer
	require.NoError(t, testreport.Encode(&buf, report))
	loaded, err := testreport.Decode(&buf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "unexpected error: x��y", outcome.Message)
	assert.Equal(t, report.Results, loaded.Results)
	assert.Equal(t, "bad �", Failed("bad \xff").Message)
	assert.Equal(t, "ok", Skipped("ok").Message)
}
