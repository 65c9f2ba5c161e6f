package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

// LabelHeader names the label column of tables read from chart JSON.
const LabelHeader = "Label"

type jsonParser struct{}

type chartDocument struct {
	Labels   []analysis.Value `json:"labels"`
	Datasets []struct {
		Label string           `json:"label"`
		Data  []analysis.Value `json:"data"`
	} `json:"datasets"`
}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Parse reads a chart document of labels plus named datasets. Each dataset
// becomes a column; dataset lengths must match the label count.
func (jsonParser) Parse(_ string, content []byte, _ Options) (*analysis.Table, error) {
	var doc chartDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	t := &analysis.Table{
		Headers: []string{LabelHeader},
		Labels:  make([]string, len(doc.Labels)),
		Columns: make(map[string][]analysis.Value, len(doc.Datasets)),
	}
	for i, l := range doc.Labels {
		t.Labels[i] = l.String()
	}
	for i, ds := range doc.Datasets {
		name := strings.TrimSpace(ds.Label)
		if name == "" {
			name = fmt.Sprintf("Dataset %d", i+1)
		}
		if _, dup := t.Columns[name]; dup {
			return nil, &analysis.Error{Op: "parse", Column: name, Err: analysis.ErrMalformedTable, Detail: "duplicate dataset label"}
		}
		t.Headers = append(t.Headers, name)
		t.Columns[name] = append([]analysis.Value(nil), ds.Data...)
	}
	return t, nil
}
