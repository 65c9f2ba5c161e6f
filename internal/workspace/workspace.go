package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/utils"
)

const (
	FileName      = "workspace.json"
	tableFileName = "table.json"
)

// ErrNoDataset is returned by operations that need an uploaded table.
var ErrNoDataset = errors.New("no dataset uploaded")

// Workspace is the persisted analysis context: one dataset, its filters and
// the cached column types.
type Workspace struct {
	ID          string                         `json:"id"`
	Name        string                         `json:"name"`
	Description string                         `json:"description,omitempty"`
	Dataset     *Dataset                       `json:"dataset,omitempty"`
	Filters     map[string]analysis.FilterSpec `json:"filters"`
	Types       analysis.TypeMap               `json:"types,omitempty"`
	// TypesKey is the table fingerprint Types was inferred from.
	TypesKey  string    `json:"types_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	rootDir string
}

// Dataset describes the uploaded file.
type Dataset struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	Rows     int       `json:"rows"`
	Headers  []string  `json:"headers"`
	LoadedAt time.Time `json:"loaded_at"`
}

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, description, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Filters:     map[string]analysis.FilterSpec{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Load reads workspace.json from dir.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Filters == nil {
		w.Filters = map[string]analysis.FilterSpec{}
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes workspace.json atomically.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, FileName), data)
}

// saveWithTable commits a new table snapshot together with workspace.json.
// Both files are staged first; if workspace.json cannot be replaced the
// previous table is put back, so the pair on disk always matches.
func (w *Workspace) saveWithTable(t *analysis.Table) error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	tdata, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	w.UpdatedAt = time.Now()
	wdata, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}

	tablePath := filepath.Join(w.rootDir, tableFileName)
	wsPath := filepath.Join(w.rootDir, FileName)
	tableTmp, wsTmp, backup := tablePath+".tmp", wsPath+".tmp", tablePath+".bak"
	cleanup := func() {
		_ = os.Remove(tableTmp)
		_ = os.Remove(wsTmp)
	}
	if err := os.WriteFile(tableTmp, tdata, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("stage table: %w", err)
	}
	if err := os.WriteFile(wsTmp, wdata, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("stage workspace: %w", err)
	}

	hadTable := true
	if err := os.Rename(tablePath, backup); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			cleanup()
			return fmt.Errorf("back up table: %w", err)
		}
		hadTable = false
	}
	restore := func() {
		if hadTable {
			_ = os.Rename(backup, tablePath)
		} else {
			_ = os.Remove(tablePath)
		}
	}
	if err := os.Rename(tableTmp, tablePath); err != nil {
		restore()
		cleanup()
		return fmt.Errorf("commit table: %w", err)
	}
	if err := os.Rename(wsTmp, wsPath); err != nil {
		restore()
		cleanup()
		return fmt.Errorf("commit workspace: %w", err)
	}
	if hadTable {
		_ = os.Remove(backup)
	}
	return nil
}

func (w *Workspace) loadTable() (*analysis.Table, error) {
	b, err := os.ReadFile(filepath.Join(w.rootDir, tableFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDataset
		}
		return nil, fmt.Errorf("read table: %w", err)
	}
	var t analysis.Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("stored table: %w", err)
	}
	return &t, nil
}

// FilterDescriptions renders the active filters sorted by column name.
func (w *Workspace) FilterDescriptions() []string {
	return DescribeFilters(w.Filters)
}

// DescribeFilters renders specs as "column: spec" lines sorted by column.
func DescribeFilters(specs map[string]analysis.FilterSpec) []string {
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, fmt.Sprintf("%s: %s", n, specs[n]))
	}
	return out
}

// List returns the names of the workspaces under root, sorted.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), FileName)); err == nil {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
