package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/recommend"
)

const moviesCSV = `rotten_tomatoes_link,movie_title,genres,directors,tomatometer_rating
m/heat,Heat,"Action & Adventure, Drama",Michael Mann,87
m/collateral,Collateral,"Crime, Drama",Michael Mann,86
m/alien,Alien,"Horror, Science Fiction & Fantasy",Ridley Scott,98
m/heat,Heat,Comedy,Someone Else,10
`

const reviewsCSV = `rotten_tomatoes_link,critic_name,review_score
m/heat,a,A
m/heat,b,3/4
m/heat,b,3/4
m/alien,c,B+
`

func writeDataset(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.csv")
	reviews := filepath.Join(dir, "critic_reviews.csv")
	require.NoError(t, os.WriteFile(movies, []byte(moviesCSV), 0o600))
	require.NoError(t, os.WriteFile(reviews, []byte(reviewsCSV), 0o600))
	return movies, reviews
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	base := []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "disabled"}
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommendTable(t *testing.T) {
	movies, reviews := writeDataset(t)
	out, err := run(t, "",
		"recommend", "--movies", movies, "--reviews", reviews,
		"--genres", "drama", "--directors", "Michael Mann", "--num", "5", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Recommended Movies ===")
	assert.Contains(t, out, "Heat")
	assert.Contains(t, out, "Collateral")
	assert.Contains(t, out, "87%")
	assert.NotContains(t, out, "Alien")
}

func TestRecommendJSON(t *testing.T) {
	movies, reviews := writeDataset(t)
	out, err := run(t, "",
		"recommend", "--movies", movies, "--reviews", reviews,
		"--genres", "horror", "--no-prompt", "--json", "--diversity", "0")
	require.NoError(t, err)

	var res recommend.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, recommend.StatusOK, res.Status)
	require.Len(t, res.Movies, 1)
	assert.Equal(t, "Alien", res.Movies[0].Title)
	assert.Equal(t, 1, res.Movies[0].ReviewCount)
	assert.InDelta(t, res.Movies[0].RatingScore, res.Movies[0].CombinedScore, 1e-9)
}

func TestRecommendPromptsForMissingPreferences(t *testing.T) {
	movies, reviews := writeDataset(t)
	out, err := run(t, "Science Fiction & Fantasy, \n\n",
		"recommend", "--movies", movies, "--reviews", reviews)
	require.NoError(t, err)
	assert.Contains(t, out, "Enter your favorite genres")
	assert.Contains(t, out, "Enter your favorite directors")
	assert.Contains(t, out, "Alien")
}

func TestRecommendNoMatch(t *testing.T) {
	movies, reviews := writeDataset(t)
	out, err := run(t, "", "recommend", "--movies", movies, "--reviews", reviews, "--directors", "Nolan", "--no-prompt")
	require.NoError(t, err)
	assert.Contains(t, out, noResultsMessage)
}

func TestRecommendInvalidRequest(t *testing.T) {
	movies, reviews := writeDataset(t)
	_, err := run(t, "", "recommend", "--movies", movies, "--reviews", reviews, "--no-prompt")
	require.Error(t, err)
}

func TestImportThenRecommendFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	movies, reviews := writeDataset(t)

	out, err := run(t, "", "import", "--movies", movies, "--reviews", reviews, "--redis", mr.Addr())
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 movies and 3 reviews")

	out, err = run(t, "", "recommend", "--redis", mr.Addr(), "--genres", "drama", "--no-prompt", "--json")
	require.NoError(t, err)
	var res recommend.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Movies, 2)
	for _, m := range res.Movies {
		assert.Equal(t, "Michael Mann", m.Director)
	}
}

func TestRecommendRejectsOutOfRangeFlags(t *testing.T) {
	movies, reviews := writeDataset(t)
	for _, args := range [][]string{
		{"--diversity", "5"},
		{"--diversity", "-0.1"},
		{"--num", "0"},
		{"--blacklist-key", "movierec:blacklist"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			base := []string{"recommend", "--movies", movies, "--reviews", reviews, "--genres", "drama", "--no-prompt"}
			_, err := run(t, "", append(base, args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid options")
		})
	}
}

func TestRecommendPipelineWithExprRejected(t *testing.T) {
	movies, reviews := writeDataset(t)
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  nodes:\n    - type: recall.catalog\n"), 0o600))

	_, err := run(t, "", "recommend", "--movies", movies, "--reviews", reviews, "--genres", "drama",
		"--no-prompt", "--pipeline", path, "--expr", `item.title != ""`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom pipeline")
}

func TestImportBlacklistThenRecommend(t *testing.T) {
	mr := miniredis.RunT(t)
	movies, reviews := writeDataset(t)

	_, err := run(t, "", "import", "--movies", movies, "--reviews", reviews, "--redis", mr.Addr(),
		"--blacklist", "Heat", "--blacklist-key", "movierec:blacklist")
	require.NoError(t, err)
	stored, err := mr.Get("movierec:blacklist")
	require.NoError(t, err)
	assert.JSONEq(t, `["Heat"]`, stored)

	_, err = run(t, "", "import", "--movies", movies, "--reviews", reviews, "--redis", mr.Addr(), "--blacklist", "Heat")
	require.Error(t, err)

	out, err := run(t, "", "recommend", "--redis", mr.Addr(), "--blacklist-key", "movierec:blacklist",
		"--genres", "drama", "--no-prompt", "--json")
	require.NoError(t, err)
	var res recommend.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Movies, 1)
	assert.Equal(t, "Collateral", res.Movies[0].Title)
}
