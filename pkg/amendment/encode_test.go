package amendment

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/coolbeans/regparser/pkg/tokens"
	"gopkg.in/yaml.v3"
)

var sampleAmendments = []Amendment{
	{Action: tokens.PUT, Label: "7654.2", Field: tokens.TextField},
	{Action: tokens.MOVE, Source: "(c)(2)(iii)", Destination: "(c)(2)(iv)"},
	{Action: tokens.DESIGNATE, Labels: []string{"1005.1", "1005.2"}, Destination: "1005-Subpart:B"},
}

func TestEncodeJSON(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, FormatJSON, sampleAmendments); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded []Amendment
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("decoded %d amendments, want 3", len(decoded))
	}
	if decoded[1].String() != "(MOVE, ((c)(2)(iii), (c)(2)(iv)))" {
		t.Errorf("move: got %s", decoded[1])
	}
	if !strings.Contains(buffer.String(), `"labels"`) {
		t.Error("designation labels missing from JSON")
	}
	if strings.Count(buffer.String(), `"source"`) != 1 {
		t.Errorf("empty source fields should be omitted:\n%s", buffer.String())
	}
}

func TestEncodeEmptyJSON(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, FormatJSON, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, FormatYAML, sampleAmendments); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded []Amendment
	if err := yaml.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 3 || decoded[0].Field != tokens.TextField || len(decoded[2].Labels) != 2 {
		t.Errorf("decoded: got %+v", decoded)
	}
}

func TestEncodeCSV(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, FormatCSV, sampleAmendments); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := strings.Join([]string{
		"action,label,field,source,destination,labels",
		"PUT,7654.2,text,,,",
		"MOVE,,,(c)(2)(iii),(c)(2)(iv),",
		"DESIGNATE,,,,1005-Subpart:B,1005.1;1005.2",
		"",
	}, "\n")
	if buffer.String() != want {
		t.Errorf("CSV:\n got  %q\n want %q", buffer.String(), want)
	}
}

func TestEncodeCSVHeaderOnly(t *testing.T) {
	var buffer bytes.Buffer
	if err := EncodeCSV(&buffer, nil); err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	if buffer.String() != "action,label,field,source,destination,labels\n" {
		t.Errorf("got %q", buffer.String())
	}
}

func TestEncodeText(t *testing.T) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, FormatText, sampleAmendments[:1]); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buffer.String() != "(PUT, 7654.2)\n" {
		t.Errorf("got %q", buffer.String())
	}
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"csv", FormatCSV, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}

	for _, testCase := range testCases {
		got, err := ParseFormat(testCase.input)
		if (err != nil) != testCase.wantErr {
			t.Errorf("ParseFormat(%q): error = %v, wantErr %t", testCase.input, err, testCase.wantErr)
		}
		if got != testCase.want {
			t.Errorf("ParseFormat(%q): got %q, want %q", testCase.input, got, testCase.want)
		}
	}
}
