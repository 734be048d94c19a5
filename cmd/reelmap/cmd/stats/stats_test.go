package stats

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/stats"
)

func TestStatsCommand(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	files := map[string]string{
		cfg.RatingsPath(): "userId,movieId,rating\n1,1,4\n1,2,3\n1,3,5\n2,1,2\n",
		cfg.LinksPath():   "movieId,imdbId,tmdbId\n1,0114709,862\n2,0113497,8844\n3,0113228,15602\n",
		cfg.MetadataPath(): "budget,genres,id,imdb_id,original_language,title,release_date,revenue,runtime\n" +
			"0,\"[{'id': 16, 'name': 'Animation'}, {'id': 35, 'name': 'Comedy'}]\",862,tt0114709,en,Toy Story,1995-10-30,0,81\n" +
			"0,\"[{'id': 35, 'name': 'Comedy'}]\",8844,tt0113497,fr,Jumanji,1995-12-15,0,104\n" +
			"0,\"[{'id': 35, 'name': 'Comedy'}]\",15602,tt0113228,en,Grumpier Old Men,1996-12-22,0,101\n",
		cfg.IMDBRatingsPath(): "tconst\taverageRating\tnumVotes\ntt0114709\t8.3\t1000\ntt0113497\t7.0\t100\n",
	}
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	mock := &application.Mock{
		ConfigFunc:       func() config.Config { return cfg },
		OutputFormatFunc: func() string { return "json" },
	}

	var buf bytes.Buffer
	cmd := NewCommand(mock)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var report stats.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.Equal(t, 2, report.Activity.Users)
	assert.Equal(t, 1, report.Activity.Min)
	assert.Equal(t, 3, report.Activity.Max)
	assert.Equal(t, []stats.Count{{Key: "1995", Count: 2}, {Key: "1996", Count: 1}}, report.ByYear)
	assert.Equal(t, []stats.Count{{Key: "en", Count: 2}, {Key: "fr", Count: 1}}, report.ByLanguage)
	assert.Equal(t, []stats.Count{{Key: "Animation", Count: 1}, {Key: "Comedy", Count: 3}}, report.ByGenre)
	assert.Equal(t, 2, report.Ratings.Rated)
	assert.InDelta(t, 7.65, report.Ratings.MeanRating, 1e-9)
}

func TestStatsCommandWithoutDatasets(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	mock := &application.Mock{ConfigFunc: func() config.Config { return cfg }}

	cmd := NewCommand(mock)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reelmap fetch")
}
