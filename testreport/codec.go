package testreport

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Encode writes the report as indented JSON
func Encode(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	return nil
}

// Decode reads a report previously written by Encode
func Decode(r io.Reader) (*Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, errors.Wrap(err, "failed to decode report")
	}
	if report.Results == nil {
		report.Results = []Result{}
	}
	return &report, nil
}

func marshal(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
