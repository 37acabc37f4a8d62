package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/griddle/internal/aggregate"
	"github.com/mesh-intelligence/griddle/internal/employee"
	"github.com/mesh-intelligence/griddle/internal/paths"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// env isolates the config and data directories of one test.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{configDir: filepath.Join(dir, "config"), dataDir: filepath.Join(dir, "data")}
	t.Setenv(paths.EnvConfigDir, e.configDir)
	t.Setenv(paths.EnvDataDir, e.dataDir)
	return e
}

func (e env) writeConfig(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigFile(e.configDir), []byte(body), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type dumped struct {
	Row   int `json:"row"`
	Cells map[string]struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	} `json:"cells"`
}

func dumpJSON(t *testing.T, args ...string) []dumped {
	t.Helper()
	out, err := run(t, append([]string{"dump", "--json"}, args...)...)
	require.NoError(t, err)
	var rows []dumped
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestVersion(t *testing.T) {
	newEnv(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "griddle v"+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+paths.ConfigFile(e.configDir))
	assert.DirExists(t, e.dataDir)

	data, err := os.ReadFile(paths.ConfigFile(e.configDir))
	require.NoError(t, err)
	var cfg types.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.DefaultConfig(), cfg)

	out, err = run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "kept existing")
}

func TestConfigPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		args     []string
		wantRows int
	}{
		{"defaults without a file", "", nil, types.DefaultRows},
		{"file value", "rows: 3\n", nil, 3},
		{"flag beats file", "rows: 3\n", []string{"--rows", "2"}, 2},
		{"zero rows", "rows: 0\n", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.config != "" {
				e.writeConfig(t, tt.config)
			}
			assert.Len(t, dumpJSON(t, tt.args...), tt.wantRows)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr error
	}{
		{"unknown theme", "theme: neon\n", nil, types.ErrUnknownVariant},
		{"negative rows", "", []string{"--rows=-1"}, types.ErrInvalidCount},
		{"bad log level", "log_level: loud\n", nil, types.ErrInvalidLogLevel},
		{"zero row height", "row_height: 0\n", nil, types.ErrInvalidRowHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.config != "" {
				e.writeConfig(t, tt.config)
			}
			_, err := run(t, append([]string{"dump"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDumpText(t *testing.T) {
	newEnv(t)
	out, err := run(t, "dump", "--rows", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Email"))
	assert.Contains(t, lines[0], "Salary")
	first := employee.Generate(4, 0)[0]
	assert.Contains(t, lines[1], first.FirstName)
}

func TestDumpSorted(t *testing.T) {
	newEnv(t)
	rows := dumpJSON(t, "--rows", "12", "--sort", "salary:desc")
	require.Len(t, rows, 12)

	prev := 0.0
	for i, r := range rows {
		v, err := strconv.ParseFloat(r.Cells[employee.ColSalary].Text, 64)
		require.NoError(t, err)
		if i > 0 {
			assert.LessOrEqual(t, v, prev, "row %d", r.Row)
		}
		prev = v
		assert.Equal(t, "number", r.Cells[employee.ColSalary].Kind)
		assert.Equal(t, "custom", r.Cells[employee.ColHiredAt].Kind)
	}
}

func TestDumpBadSort(t *testing.T) {
	tests := []struct {
		name    string
		sort    string
		wantErr error
	}{
		{"unknown column", "nope", types.ErrUnknownColumn},
		{"bad direction", "email:sideways", types.ErrInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newEnv(t)
			_, err := run(t, "dump", "--sort", tt.sort)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuery(t *testing.T) {
	newEnv(t)
	out, err := run(t, "query", "--rows", "7", "SELECT count(*) AS n FROM grid")
	require.NoError(t, err)
	assert.Equal(t, "n\n7\n", out)

	out, err = run(t, "query", "--rows", "3", "--json", "SELECT _row FROM grid ORDER BY _row DESC LIMIT 1")
	require.NoError(t, err)
	var res struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"_row"}, res.Columns)
	assert.Equal(t, [][]any{{float64(3)}}, res.Rows)

	_, err = run(t, "query", "DROP TABLE grid")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		want    string
		wantErr error
	}{
		{"count filled", "", []string{"firstName", "countFilled", "--rows", "4"}, "Count filled: 4\n", nil},
		{"case-insensitive column", "", []string{"FIRSTNAME", "countEmpty", "--rows", "4"}, "Count empty: 0\n", nil},
		{"empty grid", "", []string{"salary", "sum", "--rows", "0"}, "Sum: no value\n", nil},
		{"excluded column", "footer_exclude: [email]\n", []string{"email", "countEmpty"}, "email is excluded from the footer\n", nil},
		{"numeric kind on text", "", []string{"firstName", "sum"}, "", types.ErrKindNotAllowed},
		{"unknown kind", "", []string{"salary", "median"}, "", types.ErrUnknownKind},
		{"unknown column", "", []string{"nope", "countEmpty"}, "", types.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.config != "" {
				e.writeConfig(t, tt.config)
			}
			out, err := run(t, append([]string{"aggregate"}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	out, err := run(t, "render", "--rows", "6", "--width", "400", "--height", "200", "--sort", "email")
	require.NoError(t, err)

	path := filepath.Join(e.dataDir, defaultRenderFile)
	assert.Contains(t, out, "wrote "+path)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestRenderExplicitOut(t *testing.T) {
	newEnv(t)
	out := filepath.Join(t.TempDir(), "frame.png")
	_, err := run(t, "render", "--rows", "2", "--width", "320", "--height", "160", "--theme", "dark", "--out", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestViewNeedsTerminal(t *testing.T) {
	newEnv(t)
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		t.Skip("running in a terminal")
	}
	_, err := run(t, "view")
	assert.ErrorIs(t, err, ErrNoTerminal)
}

func TestSessionFooterFromConfig(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "rows: 5\nfooter:\n  firstName: countFilled\n  salary: average\nfooter_exclude: [website]\n")

	a := &app{v: viper.New(), stderr: io.Discard}
	require.NoError(t, a.load(nil))
	s, err := a.newSession("")
	require.NoError(t, err)

	assert.Equal(t, aggregate.CountFilled, s.footer.Selected(employee.ColFirstName))
	assert.Equal(t, aggregate.Average, s.footer.Selected(employee.ColSalary))
	assert.True(t, s.footer.Cell(employee.ColWebsite).Excluded)
	assert.Equal(t, "5 count filled", s.footer.Cell(employee.ColFirstName).Text())
}

func TestSessionThemeOverrides(t *testing.T) {
	e := newEnv(t)
	e.writeConfig(t, "theme: dark\ntheme_overrides:\n  accentColor: \"#FF0000\"\n")

	a := &app{v: viper.New(), stderr: io.Discard}
	require.NoError(t, a.load(nil))
	s, err := a.newSession("")
	require.NoError(t, err)
	assert.Equal(t, types.ThemeDark, s.theme.Variant)
	assert.Equal(t, "#FF0000", s.theme.AccentColor)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		col     string
		dir     types.Direction
		wantErr bool
	}{
		{"email", "email", types.Ascending, false},
		{"email:desc", "email", types.Descending, false},
		{"email:none", "email", types.DirectionNone, false},
		{"email:up", "", types.DirectionNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			col, dir, err := parseSort(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.col, col)
			assert.Equal(t, tt.dir, dir)
		})
	}
}

func TestTableWrite(t *testing.T) {
	var b bytes.Buffer
	tb := table{
		header: []string{"a", "bb"},
		rows:   [][]string{{"xxx", "y"}, {"", strings.Repeat("z", maxCellWidth+5)}},
	}
	require.NoError(t, tb.write(&b))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a    bb", lines[0])
	assert.Equal(t, "xxx  y", lines[1])
	assert.Equal(t, "     "+strings.Repeat("z", maxCellWidth-1)+"…", lines[2])
}

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	l := newLogger(&b, "warn")
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "shown")
}
