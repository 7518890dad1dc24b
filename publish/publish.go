// Package publish uploads run reports to a Supabase table
package publish

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"

	"authcheck-cli/testreport"
)

// Row is the stored summary of one run
type Row struct {
	StartedAt  float64            `json:"started_at"`
	FinishedAt float64            `json:"finished_at"`
	Total      int                `json:"total"`
	Passed     int                `json:"passed"`
	Failed     int                `json:"failed"`
	Errors     int                `json:"errors"`
	Skipped    int                `json:"skipped"`
	Duration   float64            `json:"duration"`
	Report     *testreport.Report `json:"report"`
}

// NewRow summarizes a report
func NewRow(report *testreport.Report) Row {
	return Row{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Total:      report.Stats.Total,
		Passed:     report.Stats.Passed,
		Failed:     report.Stats.Failed,
		Errors:     report.Stats.Errors,
		Skipped:    report.Stats.Skipped,
		Duration:   report.Stats.Duration,
		Report:     report,
	}
}

// Inserter writes one row into a table
type Inserter interface {
	InsertRow(table string, row any) error
}

type supabaseInserter struct {
	client *supabase.Client
}

func (s supabaseInserter) InsertRow(table string, row any) error {
	_, _, err := s.client.From(table).Insert(row, false, "", "minimal", "").Execute()
	return err
}

// NewSupabaseInserter connects to the project at url
func NewSupabaseInserter(url, key string) (Inserter, error) {
	if url == "" || key == "" {
		return nil, errors.New("SUPABASE_URL and SUPABASE_KEY must be set in environment variables")
	}
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create supabase client")
	}
	return supabaseInserter{client: client}, nil
}

// Publisher uploads every persisted report
type Publisher struct {
	inserter Inserter
	table    string
	log      zerolog.Logger
}

// NewPublisher creates a publisher writing to table
func NewPublisher(inserter Inserter, table string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		inserter: inserter,
		table:    table,
		log:      logger.With().Str("component", "publish").Logger(),
	}
}

// ObserveReport inserts the report summary
func (p *Publisher) ObserveReport(ctx context.Context, report *testreport.Report) error {
	if err := p.inserter.InsertRow(p.table, NewRow(report)); err != nil {
		return errors.Wrapf(err, "failed to publish report to %s", p.table)
	}
	p.log.Info().Str("table", p.table).Int("total", report.Stats.Total).Msg("report published")
	return nil
}
