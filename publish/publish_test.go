package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

type recordingInserter struct {
	table string
	rows  []any
	err   error
}

func (r *recordingInserter) InsertRow(table string, row any) error {
	r.table = table
	r.rows = append(r.rows, row)
	return r.err
}

func sampleReport() *testreport.Report {
	start := time.Unix(1700000000, 0)
	return testreport.NewReport([]testreport.Result{
		{Name: "a", Group: "g", Status: testreport.StatusPassed, Duration: 0.1},
		{Name: "b", Group: "g", Status: testreport.StatusSkipped, Duration: 0.2},
	}, start, start.Add(time.Second))
}

func TestNewRow(t *testing.T) {
	report := sampleReport()

	row := NewRow(report)

	assert.Equal(t, 2, row.Total)
	assert.Equal(t, 1, row.Passed)
	assert.Equal(t, 1, row.Skipped)
	assert.Equal(t, 1700000000.0, row.StartedAt)
	assert.Equal(t, 1.0, row.Duration)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"started_at", "finished_at", "total", "passed", "failed", "errors", "skipped", "duration", "report"} {
		assert.Contains(t, fields, key)
	}
}

func TestPublisher_ObserveReport(t *testing.T) {
	inserter := &recordingInserter{}
	p := NewPublisher(inserter, "test_reports", zerolog.Nop())

	require.NoError(t, p.ObserveReport(context.Background(), sampleReport()))

	assert.Equal(t, "test_reports", inserter.table)
	require.Len(t, inserter.rows, 1)
	assert.Equal(t, 2, inserter.rows[0].(Row).Total)
}

func TestPublisher_ObserveReport_Error(t *testing.T) {
	p := NewPublisher(&recordingInserter{err: errors.New("401")}, "test_reports", zerolog.Nop())

	err := p.ObserveReport(context.Background(), sampleReport())

	assert.ErrorContains(t, err, "failed to publish report to test_reports: 401")
}

func TestNewSupabaseInserter_RequiresCredentials(t *testing.T) {
	_, err := NewSupabaseInserter("", "key")
	assert.ErrorContains(t, err, "SUPABASE_URL")
}
