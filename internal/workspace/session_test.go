package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
	"github.com/KaramelBytes/datavista-cli/internal/logging"
	"github.com/KaramelBytes/datavista-cli/internal/parser"
)

// writeSalesCSV writes twelve monthly rows with Region alternating
// North/South.
func writeSalesCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Region,Sales\n")
	for i := 0; i < 12; i++ {
		region := "North"
		if i%2 == 1 {
			region = "South"
		}
		fmt.Fprintf(&b, "2024-%02d-01,%s,%d\n", i+1, region, 100+10*i)
	}
	p := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func newSession(t *testing.T) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	ws := New("demo", "", filepath.Join(dir, "ws"))
	require.NoError(t, ws.Save())
	s, err := Open(ws, analysis.DefaultOptions())
	require.NoError(t, err)
	return s, dir
}

func TestSessionRequiresDataset(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.Insights()
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = s.Controls()
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.ErrorIs(t, s.SetFilters(nil), ErrNoDataset)
}

func TestSessionUploadFilterInsights(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))

	assert.Equal(t, analysis.TypeMap{"Date": analysis.Date, "Region": analysis.Categorical, "Sales": analysis.Numeric}, s.Types())
	require.NotNil(t, s.Workspace().Dataset)
	assert.Equal(t, "sales.csv", s.Workspace().Dataset.Name)
	assert.Equal(t, 12, s.Workspace().Dataset.Rows)
	assert.Len(t, s.Workspace().Dataset.Checksum, 16)

	require.NoError(t, s.SetFilters(map[string]analysis.FilterSpec{"Region": analysis.CategoricalSet("North")}))
	view, err := s.View()
	require.NoError(t, err)
	assert.Len(t, view.Rows, 6)
	assert.Equal(t, 12, view.TotalRows)
	require.Len(t, view.Series, 1)
	assert.Equal(t, []float64{100, 120, 140, 160, 180, 200}, view.Series[0].Data)

	rep, err := s.Insights()
	require.NoError(t, err)
	assert.Equal(t, 6, rep.Rows)
	assert.Equal(t, 12, rep.TotalRows)
	assert.Equal(t, []string{"Region: {North}"}, rep.Filters)
	require.Len(t, rep.Statistics, 1)
	assert.Equal(t, 150.0, rep.Statistics[0].Stats.Mean)

	require.NoError(t, s.ClearFilters())
	rep, err = s.Insights()
	require.NoError(t, err)
	assert.Equal(t, 12, rep.Rows)
	assert.Equal(t, 155.0, rep.Statistics[0].Stats.Mean)
	assert.Equal(t, 12, s.Table().Len())
}

func TestSessionReopenUsesStoredState(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))
	require.NoError(t, s.SetFilters(map[string]analysis.FilterSpec{"Sales": analysis.NumericRange(100, 130)}))
	root := s.Workspace().RootDir()

	// the source file is no longer needed
	require.NoError(t, os.Remove(filepath.Join(dir, "sales.csv")))

	ws, err := Load(root)
	require.NoError(t, err)
	tl := logging.NewTestLogger()
	opt := analysis.DefaultOptions()
	opt.Logger = tl.Logger
	reopened, err := Open(ws, opt)
	require.NoError(t, err)

	assert.True(t, s.Table().Equal(reopened.Table()))
	assert.Equal(t, s.Types(), reopened.Types())
	tl.AssertField(t, "column types from cache", "workspace", "demo")

	view, err := reopened.View()
	require.NoError(t, err)
	assert.Equal(t, analysis.RowIndexSet{0, 1, 2, 3}, view.Rows)
}

func TestSessionReinfersWhenTableChanges(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))
	ws := s.Workspace()
	ws.TypesKey = "stale"
	ws.Types = analysis.TypeMap{"Sales": analysis.Categorical}
	require.NoError(t, ws.Save())

	reopened, err := Open(ws, analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, analysis.Numeric, reopened.Types()["Sales"])
	assert.Equal(t, Fingerprint(reopened.Table()), ws.TypesKey)
}

func TestUploadClearsFilters(t *testing.T) {
	s, dir := newSession(t)
	p := writeSalesCSV(t, dir)
	require.NoError(t, s.Upload(p, parser.Options{}))
	require.NoError(t, s.SetFilters(map[string]analysis.FilterSpec{"Region": analysis.CategoricalSet("South")}))
	require.NoError(t, s.Upload(p, parser.Options{}))
	assert.Empty(t, s.Filters())
}

func TestUploadFailureKeepsPreviousTable(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("only\na\n"), 0o644))
	err := s.Upload(bad, parser.Options{})
	assert.ErrorIs(t, err, analysis.ErrMalformedTable)
	assert.Equal(t, 12, s.Table().Len())
	assert.Equal(t, "sales.csv", s.Workspace().Dataset.Name)
}

func TestUploadCommitFailureKeepsPreviousState(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))
	root := filepath.Join(dir, "ws")

	// A non-empty directory in place of workspace.json makes the final rename fail.
	wsPath := filepath.Join(root, FileName)
	require.NoError(t, os.Remove(wsPath))
	require.NoError(t, os.MkdirAll(filepath.Join(wsPath, "blocker"), 0o755))

	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(other, []byte("Name,Score\nA,1\nB,2\n"), 0o644))
	require.Error(t, s.Upload(other, parser.Options{}))

	assert.Equal(t, 12, s.Table().Len())
	assert.Equal(t, "sales.csv", s.Workspace().Dataset.Name)
	assert.Equal(t, []string{"Date", "Region", "Sales"}, s.Workspace().Dataset.Headers)
	for _, leftover := range []string{tableFileName + ".tmp", tableFileName + ".bak", FileName + ".tmp"} {
		assert.NoFileExists(t, filepath.Join(root, leftover))
	}

	require.NoError(t, os.RemoveAll(wsPath))
	require.NoError(t, s.Workspace().Save())
	ws, err := Load(root)
	require.NoError(t, err)
	reopened, err := Open(ws, analysis.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, s.Table().Equal(reopened.Table()))
	assert.Equal(t, "sales.csv", ws.Dataset.Name)
}

func TestUnknownFilterColumnIsHarmless(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))
	require.NoError(t, s.SetFilters(map[string]analysis.FilterSpec{"Profit": analysis.NumericRange(0, 1)}))
	view, err := s.View()
	require.NoError(t, err)
	assert.Len(t, view.Rows, 12)
}

func TestControls(t *testing.T) {
	s, dir := newSession(t)
	require.NoError(t, s.Upload(writeSalesCSV(t, dir), parser.Options{}))
	controls, err := s.Controls()
	require.NoError(t, err)
	require.Len(t, controls, 3)
	assert.Equal(t, 100.0, controls[2].Min)
	assert.Equal(t, 210.0, controls[2].Max)
}
