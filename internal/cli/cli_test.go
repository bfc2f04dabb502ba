package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/testutil"
)

func run(t *testing.T, stub *testutil.StubResolver, args ...string) (string, error) {
	t.Helper()
	svc, r := testutil.NewServiceWithGames(stub.Games)
	r.Lines, r.Slate, r.Err = stub.Lines, stub.Slate, stub.Err
	service = svc
	schedulePeriod = ""
	t.Cleanup(func() { service = nil })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScheduleCommandPrintsGames(t *testing.T) {
	out, err := run(t, &testutil.StubResolver{Games: []domaingames.Game{testutil.SampleGame("nfl-1")}}, "schedule", "nfl", "--period", "5")
	require.NoError(t, err)

	var got []domaingames.Game
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "nfl-1", got[0].ID)
	assert.Contains(t, out, "\n  ", "expected indented output")
}

func TestLiveCommandFiltersLive(t *testing.T) {
	live := testutil.SampleGame("nfl-2")
	live.Status = domaingames.StatusLive
	out, err := run(t, &testutil.StubResolver{Games: []domaingames.Game{testutil.SampleGame("nfl-1"), live}}, "live", "nfl")
	require.NoError(t, err)

	var got []domaingames.Game
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "nfl-2", got[0].ID)
}

func TestLinesAndSlateCommands(t *testing.T) {
	lines := testutil.SampleLines("nfl-9")
	stub := &testutil.StubResolver{
		Lines: lines,
		Slate: []domaingames.GameWithLines{{Game: testutil.SampleGame("nfl-9"), Lines: lines}},
	}

	out, err := run(t, stub, "lines", "nfl-9")
	require.NoError(t, err)
	var gotLines domaingames.Lines
	require.NoError(t, sonic.UnmarshalString(out, &gotLines))
	assert.Equal(t, "nfl-9", gotLines.GameID)

	out, err = run(t, stub, "slate", "nfl")
	require.NoError(t, err)
	var gotSlate []domaingames.GameWithLines
	require.NoError(t, sonic.UnmarshalString(out, &gotSlate))
	require.Len(t, gotSlate, 1)
	assert.Equal(t, lines.Spread, gotSlate[0].Lines.Spread)
}

func TestCommandsSurfaceConfigurationErrors(t *testing.T) {
	_, err := run(t, &testutil.StubResolver{}, "schedule", "curling")
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrConfiguration), "expected configuration error, got %v", err)
	assert.True(t, errors.Is(err, domaingames.ErrUnknownSport), "expected unknown sport, got %v", err)
}

func TestCommandsRequireOneArg(t *testing.T) {
	_, err := run(t, &testutil.StubResolver{}, "lines")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, &testutil.StubResolver{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: "+Version)
}
