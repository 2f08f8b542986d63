package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grocery/internal/config"
	"github.com/idilsaglam/grocery/internal/items"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/store/jsonstore"
	"github.com/idilsaglam/grocery/internal/ui"
)

type result struct {
	out  string
	err  string
	code int
}

// run executes one command against dir, the way a shell would.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()
	t.Setenv("GROCERY_DATA_DIR", "")
	t.Setenv("GROCERY_BACKEND", "")
	t.Setenv("GROCERY_THEME", "")
	t.Cleanup(func() { ui.SetOutput(nil, nil) })

	var out, errOut bytes.Buffer
	app := &App{}
	cmd := newRootCmd(app)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	ui.SetOutput(&out, &errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml"), "--data", dir}, args...))

	code := exitCode(cmd.ExecuteContext(context.Background()))
	app.close()
	return result{out: out.String(), err: errOut.String(), code: code}
}

func stored(t *testing.T, dir string) []model.Item {
	t.Helper()
	return jsonstore.New(dir, nil).Load()
}

func TestAddListDoneRenameRemove(t *testing.T) {
	dir := t.TempDir()

	r := run(t, dir, "add", "Buy", "milk", "--due", "2099-10-20")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, items.MsgAdded)

	r = run(t, dir, "add", "Eggs")
	require.Equal(t, 0, r.code, r.err)

	got := stored(t, dir)
	require.Len(t, got, 2)
	assert.Equal(t, "Buy milk", got[0].Name)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, "2099-10-20", got[0].DueDate.String())
	assert.Nil(t, got[1].DueDate)

	r = run(t, dir, "ls")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, " 1.")
	assert.Contains(t, r.out, "Buy milk")
	assert.Contains(t, r.out, "due 2099-10-20")
	assert.Contains(t, r.out, " 2.")
	assert.Contains(t, r.out, "Eggs")

	r = run(t, dir, "done", "2")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "done: Eggs")
	assert.True(t, stored(t, dir)[1].Completed)

	r = run(t, dir, "rename", "1", "Oat", "milk")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, items.MsgUpdated)
	got = stored(t, dir)
	assert.Equal(t, "Oat milk", got[0].Name)
	require.NotNil(t, got[0].DueDate, "rename without --due keeps the date")

	r = run(t, dir, "rm", got[1].ID)
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, items.MsgDeleted)
	assert.Len(t, stored(t, dir), 1)
}

func TestDoneTogglesBack(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "Bread")

	run(t, dir, "done", "1")
	r := run(t, dir, "done", "1")

	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "pending: Bread")
	assert.False(t, stored(t, dir)[0].Completed)
}

func TestListGrouped(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "Milk")
	run(t, dir, "add", "Eggs")
	run(t, dir, "done", "1")

	r := run(t, dir, "ls", "--group")
	require.Equal(t, 0, r.code, r.err)

	pending := strings.Index(r.out, "Pending")
	done := strings.Index(r.out, "Done")
	require.True(t, pending >= 0 && done > pending, r.out)
	assert.Greater(t, strings.Index(r.out, "Milk"), done, "completed items sit under Done")
	assert.Less(t, strings.Index(r.out, "Eggs"), done)
	assert.Contains(t, r.out, " 2.", "grouped lines keep list positions")
}

func TestListEmpty(t *testing.T) {
	r := run(t, t.TempDir(), "ls")

	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "no items")
}

func TestOverdueMarker(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "Yogurt", "--due", "2001-01-01")

	r := run(t, dir, "ls")
	assert.Contains(t, r.out, ui.Current().SymOverdue+" due 2001-01-01")
}

func TestValidationExitCodes(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "add", "Milk")

	cases := []struct {
		name string
		args []string
		code int
		err  string
	}{
		{"blank name", []string{"add", "   "}, 2, items.MsgEmptyName},
		{"bad due", []string{"add", "Jam", "--due", "soon"}, 2, "want YYYY-MM-DD"},
		{"index out of range", []string{"done", "5"}, 2, "index out of range"},
		{"zero index", []string{"rm", "0"}, 2, "index out of range"},
		{"unknown id", []string{"rm", "nope"}, 2, `no item with id "nope"`},
		{"missing args", []string{"done"}, 2, "usage: grocery done"},
		{"extra args", []string{"ls", "x"}, 2, "usage: grocery ls"},
		{"blank rename", []string{"rename", "1", " "}, 2, items.MsgEmptyName},
		{"unknown backend", []string{"--backend", "postgres", "ls"}, 1, "backend"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := run(t, dir, tc.args...)
			assert.Equal(t, tc.code, r.code)
			assert.Contains(t, r.err, tc.err)
		})
	}

	got := stored(t, dir)
	require.Len(t, got, 1, "failed commands leave the list alone")
	assert.Equal(t, "Milk", got[0].Name)
}

func TestUnknownFlag(t *testing.T) {
	r := run(t, t.TempDir(), "ls", "--nope")
	assert.Equal(t, 2, r.code)
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()

	r := run(t, dir, "--backend", "sqlite", "add", "Rice")
	require.Equal(t, 0, r.code, r.err)

	r = run(t, dir, "--backend", "sqlite", "ls")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Rice")

	_, err := os.Stat(filepath.Join(dir, "grocery.db"))
	assert.NoError(t, err)
	assert.Empty(t, stored(t, dir), "json file untouched")
}

func TestEphemeral(t *testing.T) {
	dir := t.TempDir()

	r := run(t, dir, "--ephemeral", "add", "Tea")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, items.MsgAdded)

	_, err := os.Stat(filepath.Join(dir, jsonstore.DataFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveItem(t *testing.T) {
	slot := &store.Memory{}
	require.NoError(t, slot.Save([]model.Item{{ID: "a", Name: "Milk"}, {ID: "b", Name: "Eggs"}}))
	s := items.New(slot, nopRenderer{}, nil)

	id, err := resolveItem(s, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	id, err = resolveItem(s, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	for _, ref := range []string{"0", "3", "-1", "zz"} {
		_, err := resolveItem(s, ref)
		var ee *exitError
		require.ErrorAs(t, err, &ee, ref)
		assert.Equal(t, 2, ee.code)
	}
}

func TestConsoleListUsesToday(t *testing.T) {
	due := model.Date{Year: 2026, Month: time.October, Day: 17}
	l := consoleList{today: func() model.Date { return model.Date{Year: 2026, Month: time.October, Day: 18} }}

	out := l.BuildList([]model.Item{{ID: "a", Name: "Milk", DueDate: &due}}).View()
	assert.Contains(t, out, ui.Current().SymOverdue+" due 2026-10-17")

	l.today = func() model.Date { return due }
	out = l.BuildList([]model.Item{{ID: "a", Name: "Milk", DueDate: &due}}).View()
	assert.NotContains(t, out, ui.Current().SymOverdue)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	r := run(t, dir, "--backend", "sqlite", "config", "init")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend, "flags are recorded")
	assert.Equal(t, dir, cfg.Storage.Dir)

	r = run(t, dir, "config", "init")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "already exists")

	r = run(t, dir, "config", "init", "--force")
	require.Equal(t, 0, r.code, r.err)

	r = run(t, dir, "config", "show")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, path)
	assert.Contains(t, r.out, "backend: sqlite", "settings from the file carry over")
	assert.Contains(t, r.out, "duration: 4s")
}

func TestExecuteLogsFailures(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GROCERY_DATA_DIR", "")
	t.Setenv("GROCERY_BACKEND", "")
	t.Setenv("GROCERY_THEME", "")
	t.Cleanup(func() { ui.SetOutput(nil, nil) })

	code := Execute(context.Background(), []string{
		"--config", filepath.Join(dir, "config.yaml"), "--data", dir, "done", "9",
	})
	assert.Equal(t, 2, code)

	logged, err := os.ReadFile(filepath.Join(dir, "grocery.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "command failed")
	assert.Contains(t, string(logged), "index out of range")
}

type nopRenderer struct{}

func (nopRenderer) Render(model.View) {}
func (nopRenderer) RequestFocus()     {}
