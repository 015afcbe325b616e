package main

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

	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/tree"
)

const tennisCSV = `no,sunny,hot,high,weak
no,sunny,hot,high,strong
yes,overcast,hot,high,weak
yes,rain,mild,high,weak
yes,rain,cool,normal,weak
no,rain,cool,normal,strong
yes,overcast,cool,normal,strong
no,sunny,mild,high,weak
yes,sunny,cool,normal,weak
yes,rain,mild,normal,weak
yes,sunny,mild,normal,strong
yes,overcast,mild,high,strong
yes,overcast,hot,normal,weak
no,rain,mild,high,strong
`

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, 30, 10, 7, 1500*time.Millisecond, 20*time.Millisecond)
	assert.Equal(t, `30 samples used to train the forest.
10 samples used to test the forest.
70.00% (7/10) tests passed.
Forest construction time: 1500 ms
Forest testing time: 20 ms
`, buf.String())

	buf.Reset()
	reportTests(&buf, 0, 0)
	assert.Equal(t, "0.00% (0/0) tests passed.\n", buf.String())
}

func TestPredict(t *testing.T) {
	s, err := parseSample([]string{"1=sunny", "2=high"})
	require.NoError(t, err)
	v, _ := s.ValueFor("2")
	assert.Equal(t, "high", v)
	_, err = parseSample([]string{"sunny"})
	assert.Error(t, err)

	split := tree.NewSplit("1", map[string]*tree.Tree{"sunny": tree.NewLeaf("no"), "rain": tree.NewLeaf("yes")}, "yes")
	var buf bytes.Buffer
	require.NoError(t, predict(&buf, forest.New(split, split, tree.NewLeaf("yes")), s))
	assert.Equal(t, "Decision: no\n  no: 2/3 votes\n  yes: 1/3 votes\n", buf.String())

	assert.Error(t, predict(&buf, forest.New(), s))
}

func TestValidate(t *testing.T) {
	tc := trainingConfig{trees: 10, split: 75}
	assert.NoError(t, tc.Validate())
	tc.dataInput = "postgres://localhost/grove"
	assert.Error(t, tc.Validate())
	tc.table = "samples"
	assert.NoError(t, tc.Validate())
	tc.split = 101
	assert.Error(t, tc.Validate())
	tc.split, tc.trees = 75, 0
	assert.Error(t, tc.Validate())

	ccc := clusterCmdConfig{trainingConfig: trainingConfig{trees: 9, split: 75}, size: 3, local: true}
	assert.NoError(t, ccc.Validate())
	ccc.local = false
	assert.Error(t, ccc.Validate())
	ccc.job, ccc.seed, ccc.dataInput = "job", 7, "data.csv"
	assert.NoError(t, ccc.Validate())
	ccc.rank = 3
	assert.Error(t, ccc.Validate())

	assert.Error(t, (&testCmdConfig{}).Validate())
	assert.Error(t, (&predictCmdConfig{}).Validate())
}

func TestDataConfigKinds(t *testing.T) {
	assert.True(t, (&dataConfig{dataInput: "postgresql://h/db"}).isPostgreSQL())
	assert.True(t, (&dataConfig{dataInput: "samples.db"}).isSqlite3())
	assert.True(t, (&dataConfig{dataInput: "mongodb://h/db"}).isMongoDB())
	assert.False(t, (&dataConfig{dataInput: "samples.csv"}).isDatabase())
}

func runCLI(t *testing.T, args ...string) {
	t.Helper()
	cmd := cliParser()
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
}

func TestGrowAndTestCommands(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "tennis.csv")
	require.NoError(t, os.WriteFile(data, []byte(tennisCSV), 0o644))
	out := filepath.Join(dir, "forest.json")

	runCLI(t, "grow", "-i", data, "-t", "5", "-s", "100", "--seed", "3", "-w", "2", "-o", out)
	trees, err := loadForest(context.Background(), out)
	require.NoError(t, err)
	assert.Len(t, trees, 5)

	runCLI(t, "test", "-f", out, "-i", data)

	clustered := filepath.Join(dir, "cluster.json")
	runCLI(t, "cluster", "--local", "--size", "3", "-i", data, "-t", "7", "--seed", "3", "-o", clustered)
	trees, err = loadForest(context.Background(), clustered)
	require.NoError(t, err)
	assert.Len(t, trees, 7)

	metadata := filepath.Join(dir, "metadata.yml")
	require.NoError(t, os.WriteFile(metadata, []byte(strings.Join([]string{
		"features:",
		`  "1": [sunny, overcast, rain]`,
		`  "2": [hot, mild, cool]`,
		`  "3": [high, normal]`,
		`  "4": [weak, strong]`,
	}, "\n")), 0o644))
	runCLI(t, "grow", "-i", data, "-m", metadata, "-t", "3", "-w", "1", "-o", out)
	trees, err = loadForest(context.Background(), out)
	require.NoError(t, err)
	assert.Len(t, trees, 3)
}

func TestParseForestURL(t *testing.T) {
	addr, name, err := parseForestURL("redis://localhost:6379/weather")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", addr)
	assert.Equal(t, "weather", name)

	_, _, err = parseForestURL("redis://localhost:6379/")
	assert.Error(t, err)
	_, _, err = parseForestURL("redis:///weather")
	assert.Error(t, err)
}
