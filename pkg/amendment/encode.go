package amendment

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"gopkg.in/yaml.v3"
)

// Format selects an amendment export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(name)); format {
	case FormatJSON, FormatYAML, FormatCSV, FormatText:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml, csv or text)", name)
	}
}

// csvRow flattens an amendment for CSV output. Designated labels are joined
// with semicolons.
type csvRow struct {
	Action      string `csv:"action"`
	Label       string `csv:"label"`
	Field       string `csv:"field"`
	Source      string `csv:"source"`
	Destination string `csv:"destination"`
	Labels      string `csv:"labels"`
}

func toCSVRows(amendments []Amendment) []csvRow {
	rows := make([]csvRow, len(amendments))
	for i, amendment := range amendments {
		rows[i] = csvRow{
			Action:      string(amendment.Action),
			Label:       amendment.Label,
			Field:       string(amendment.Field),
			Source:      amendment.Source,
			Destination: amendment.Destination,
			Labels:      strings.Join(amendment.Labels, ";"),
		}
	}
	return rows
}

// Encode writes amendments to w in the given format.
func Encode(w io.Writer, format Format, amendments []Amendment) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if amendments == nil {
			amendments = []Amendment{}
		}
		if err := encoder.Encode(amendments); err != nil {
			return fmt.Errorf("encoding amendments as JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(amendments); err != nil {
			return fmt.Errorf("encoding amendments as YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encoding amendments as YAML: %w", err)
		}
	case FormatCSV:
		return EncodeCSV(w, amendments)
	case FormatText:
		for _, amendment := range amendments {
			if _, err := fmt.Fprintln(w, amendment.String()); err != nil {
				return fmt.Errorf("writing amendments: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// EncodeCSV writes one CSV row per amendment, with a header row.
func EncodeCSV(w io.Writer, amendments []Amendment) error {
	writer := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(writer)
	if len(amendments) == 0 {
		if err := encoder.EncodeHeader(csvRow{}); err != nil {
			return fmt.Errorf("encoding CSV header: %w", err)
		}
	} else if err := encoder.Encode(toCSVRows(amendments)); err != nil {
		return fmt.Errorf("encoding amendments as CSV: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
