package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biodash/internal/app"
	"biodash/internal/bioscore"
	"biodash/internal/config"
	"biodash/internal/ddi"
	"biodash/internal/domain"
	"biodash/internal/hydration"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("TZ", "Europe/Zurich")
	t.Setenv("BIODASH_CONFIG", "")
	t.Cleanup(func() {
		formatFlag, inMemory, configPath = "json", false, ""
	})

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func TestScoreCommandJSON(t *testing.T) {
	out := execute(t, "--memory", "score", "--at", "2026-02-10T10:00:00")

	var r bioscore.Result
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	assert.Equal(t, 10, r.Timestamp.Hour())
	assert.GreaterOrEqual(t, r.Score, 0.0)
	assert.Empty(t, r.Warnings)
}

func TestCurveCommandText(t *testing.T) {
	out := execute(t, "--memory", "--format", "text", "curve", "--date", "2026-02-10", "--interval", "60")

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 24)
	assert.True(t, bytes.HasPrefix(lines[0], []byte("00:00")))
	assert.True(t, bytes.HasPrefix(lines[23], []byte("23:00")))
}

func TestDDICommandEmpty(t *testing.T) {
	out := execute(t, "--memory", "-f", "text", "ddi")
	assert.Equal(t, "no interactions\n", out)
}

func TestFitCommandWithoutLogs(t *testing.T) {
	out := execute(t, "--memory", "-f", "text", "fit")
	assert.Contains(t, out, "(0/15 pairs)")
}

func TestBuildStackInMemory(t *testing.T) {
	cfg := config.Default()
	st, err := buildStack(cfg, zap.NewNop(), true)
	require.NoError(t, err)
	defer func() { _ = st.close() }()

	at := time.Date(2026, 2, 10, 12, 0, 0, 0, st.loc)
	_, _, err = st.svc.Intake.Record(t.Context(), domain.IntakeEvent{Timestamp: at.Add(-3 * time.Hour), Substance: domain.Elvanse})
	require.NoError(t, err)
	_, warnings, err := st.svc.Intake.Record(t.Context(), domain.IntakeEvent{Timestamp: at, Substance: domain.CoDafalgan})
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)

	r, err := st.svc.Bio.Score(t.Context(), at)
	require.NoError(t, err)
	assert.Greater(t, r.ElvanseLevel, 0.0)

	g, err := st.svc.Hydration.TodayGoal(t.Context(), at)
	require.NoError(t, err)
	assert.True(t, g.ElvanseActive)
}

func TestBuildStackSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Database.URL = t.TempDir() + "/bio.db"
	st, err := buildStack(cfg, zap.NewNop(), false)
	require.NoError(t, err)
	defer func() { _ = st.close() }()

	id, _, err := st.svc.Water.RecordEvent(t.Context(), domain.WaterEvent{AmountMl: 250})
	require.NoError(t, err)
	assert.NotZero(t, id)

	l, err := st.svc.Journal.RecordLog(t.Context(), domain.SubjectiveLog{Focus: 6, Mood: 6, Energy: 5})
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
}

func TestRenderUnknownFormat(t *testing.T) {
	formatFlag = "yaml"
	t.Cleanup(func() { formatFlag = "json" })
	err := render(&bytes.Buffer{}, 1, nil)
	assert.Error(t, err)
}

func TestWriteHydration(t *testing.T) {
	var buf bytes.Buffer
	writeHydration(&buf, app.Status{
		Date:       "2026-02-10",
		Goal:       domain.WaterGoal{GoalMl: 3000},
		IntakeMl:   900,
		ExpectedMl: 1300,
		Assessment: hydration.Assessment{
			Message:  "Slightly behind (400 ml). Drink 300 ml.",
			Priority: hydration.PriorityNormal,
			Status:   hydration.StatusBehind,
		},
	})
	assert.Equal(t,
		"2026-02-10  900 / 3000 ml (expected 1300 ml)  behind\n"+
			"  [normal] Slightly behind (400 ml). Drink 300 ml.\n",
		buf.String())
}

func TestWriteScoreListsWarnings(t *testing.T) {
	var buf bytes.Buffer
	writeScore(&buf, bioscore.Result{
		Score:     61.5,
		Phase:     bioscore.PhaseMiddayDip,
		Timestamp: time.Date(2026, 2, 10, 13, 30, 0, 0, time.UTC),
		Warnings:  []ddi.Warning{{Severity: "critical", Title: "CYP2D6 blockade: analgesic failure"}},
	})
	out := buf.String()
	assert.Contains(t, out, "2026-02-10 13:30  score 61.5  phase midday-dip")
	assert.Contains(t, out, "[critical] CYP2D6 blockade: analgesic failure")
}
