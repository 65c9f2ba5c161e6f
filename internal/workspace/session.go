package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/parser"
)

// Session owns the active table of a workspace together with everything
// derived from it. Every query recomputes from the table and the current
// filters; nothing derived is patched in place.
type Session struct {
	ws    *Workspace
	table *analysis.Table
	types analysis.TypeMap
	opt   analysis.Options
	log   *zap.Logger
}

// View is the filtered projection handed to renderers. It replaces any
// previous view wholesale.
type View struct {
	Rows      analysis.RowIndexSet
	Table     *analysis.Table
	Labels    []string
	Series    []analysis.ChartSeries
	TotalRows int
}

// Open attaches a session to ws, loading the stored table if one was uploaded.
func Open(ws *Workspace, opt analysis.Options) (*Session, error) {
	s := &Session{ws: ws, opt: opt, log: opt.Logger}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if ws.Dataset == nil {
		return s, nil
	}
	t, err := ws.loadTable()
	if err != nil {
		return nil, err
	}
	s.table = t
	key := Fingerprint(t)
	if ws.Types != nil && ws.TypesKey == key {
		s.log.Debug("column types from cache", zap.String("workspace", ws.Name), zap.String("key", key))
		s.types = ws.Types
		return s, nil
	}
	if s.types, err = analysis.InferTypes(t); err != nil {
		return nil, err
	}
	ws.Types, ws.TypesKey = s.types, key
	return s, ws.Save()
}

// Workspace returns the underlying workspace.
func (s *Session) Workspace() *Workspace { return s.ws }

// Table returns the full, unfiltered table, or nil before an upload.
func (s *Session) Table() *analysis.Table { return s.table }

// Types returns the column types of the current table.
func (s *Session) Types() analysis.TypeMap { return s.types }

// Upload parses path, replaces the active table, re-infers column types and
// clears every filter.
func (s *Session) Upload(path string, popt parser.Options) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	t, err := parser.ParseBytes(filepath.Base(path), content, popt)
	if err != nil {
		return err
	}
	types, err := analysis.InferTypes(t)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	prev := *s.ws
	s.ws.Dataset = &Dataset{
		Name:     filepath.Base(path),
		Path:     abs,
		Checksum: fmt.Sprintf("%016x", xxhash.Sum64(content)),
		Rows:     t.Len(),
		Headers:  append([]string(nil), t.Headers...),
		LoadedAt: time.Now(),
	}
	s.ws.Types, s.ws.TypesKey = types, Fingerprint(t)
	s.ws.Filters = map[string]analysis.FilterSpec{}
	if err := s.ws.saveWithTable(t); err != nil {
		*s.ws = prev
		return err
	}
	s.table, s.types = t, types
	s.log.Info("dataset uploaded",
		zap.String("workspace", s.ws.Name),
		zap.String("file", s.ws.Dataset.Name),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Headers)))
	return nil
}

// Filters returns a copy of the active filter specs.
func (s *Session) Filters() map[string]analysis.FilterSpec {
	out := make(map[string]analysis.FilterSpec, len(s.ws.Filters))
	for k, v := range s.ws.Filters {
		out[k] = v
	}
	return out
}

// SetFilters replaces the active filter set. Specs for columns the table
// lacks are kept but have no effect.
func (s *Session) SetFilters(specs map[string]analysis.FilterSpec) error {
	if s.table == nil {
		return ErrNoDataset
	}
	next := make(map[string]analysis.FilterSpec, len(specs))
	for k, v := range specs {
		if _, ok := s.table.Column(k); !ok {
			s.log.Warn("filter column not in dataset", zap.String("column", k))
		}
		next[k] = v
	}
	s.ws.Filters = next
	return s.ws.Save()
}

// ClearFilters drops every filter, restoring the full table.
func (s *Session) ClearFilters() error {
	s.ws.Filters = map[string]analysis.FilterSpec{}
	return s.ws.Save()
}

// Controls describes the filter widgets for the current table.
func (s *Session) Controls() ([]analysis.ColumnControl, error) {
	if s.table == nil {
		return nil, ErrNoDataset
	}
	return analysis.BuildControls(s.table, s.types)
}

// View applies the active filters and projects the table.
func (s *Session) View() (*View, error) {
	if s.table == nil {
		return nil, ErrNoDataset
	}
	rows, err := analysis.Apply(s.table, s.types, s.ws.Filters, s.opt)
	if err != nil {
		return nil, err
	}
	t, err := analysis.Project(s.table, rows)
	if err != nil {
		return nil, err
	}
	labels, series := analysis.ChartData(t, s.types)
	return &View{Rows: rows, Table: t, Labels: labels, Series: series, TotalRows: s.table.Len()}, nil
}

// Insights builds a fresh report over the filtered view.
func (s *Session) Insights() (*analysis.InsightReport, error) {
	v, err := s.View()
	if err != nil {
		return nil, err
	}
	rep, err := analysis.Analyze(v.Table, s.types, s.opt)
	if err != nil {
		return nil, err
	}
	rep.Name = s.ws.Dataset.Name
	rep.TotalRows = v.TotalRows
	rep.Filters = s.ws.FilterDescriptions()
	return rep, nil
}

// Fingerprint hashes the table's headers and cells. Column types are reused
// only while it is unchanged.
func Fingerprint(t *analysis.Table) string {
	d := xxhash.New()
	for _, h := range t.Headers {
		_, _ = d.WriteString(h)
		_, _ = d.Write([]byte{0})
		vals, _ := t.Column(h)
		for _, v := range vals {
			_, _ = d.Write([]byte{byte(v.Kind())})
			_, _ = d.WriteString(v.String())
			_, _ = d.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
