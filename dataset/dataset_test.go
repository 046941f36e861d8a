package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const moviesCSV = `rotten_tomatoes_link,movie_title,genres,directors,tomatometer_rating
m/heat,Heat,"Action & Adventure, Drama",Michael Mann,87
m/alien,Alien,"Horror, Science Fiction & Fantasy",Ridley Scott,98
m/heat_1995,Heat,Drama,Michael Mann,80
`

const reviewsCSV = `rotten_tomatoes_link,critic_name,review_score
m/heat,Ann,3/4
m/heat,Ann,3/4
m/heat,Bob,B+
m/alien,Cy,garbage
`

func TestCSVSource_Movies(t *testing.T) {
	src := &CSVSource{MoviesPath: writeFile(t, "movies.csv", moviesCSV)}

	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 3, "dedup happens in the recall stage, not in the source")

	heat := movies[0]
	assert.Equal(t, "Heat", heat.Title)
	assert.Equal(t, "Action & Adventure, Drama", heat.Genres)
	assert.Equal(t, "Michael Mann", heat.Director)
	assert.Equal(t, "m/heat", heat.ReviewKey)
	assert.Equal(t, map[string]string{"tomatometer_rating": "87"}, heat.Extra)
}

func TestCSVSource_Reviews_DropsDuplicateRows(t *testing.T) {
	src := &CSVSource{ReviewsPath: writeFile(t, "reviews.csv", reviewsCSV)}

	reviews, err := src.Reviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.ReviewRecord{
		{Key: "m/heat", RawScore: "3/4"},
		{Key: "m/heat", RawScore: "B+"},
		{Key: "m/alien", RawScore: "garbage"},
	}, reviews)
}

func TestCSVSource_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		src := &CSVSource{MoviesPath: filepath.Join(t.TempDir(), "nope.csv")}
		_, err := src.Movies(ctx)
		assert.True(t, core.IsDataUnavailable(err))
	})

	t.Run("missing required column", func(t *testing.T) {
		src := &CSVSource{MoviesPath: writeFile(t, "movies.csv", "movie_title,genres\nHeat,Drama\n")}
		_, err := src.Movies(ctx)
		require.True(t, core.IsDataUnavailable(err))
		assert.Contains(t, err.Error(), "directors")
	})

	t.Run("empty file", func(t *testing.T) {
		src := &CSVSource{ReviewsPath: writeFile(t, "reviews.csv", "")}
		_, err := src.Reviews(ctx)
		assert.True(t, core.IsDataUnavailable(err))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := (&CSVSource{}).Movies(ctx)
		assert.True(t, core.IsDataUnavailable(err))
	})
}

func TestCSVSource_ShortRowsAndBOM(t *testing.T) {
	src := &CSVSource{MoviesPath: writeFile(t, "movies.csv", "\ufeffmovie_title,genres,directors\nHeat,Drama\n")}
	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "", movies[0].Director)
	assert.Equal(t, "", movies[0].ReviewKey)
}

// plainStore 隐藏 hash 方法，走 JSON 数组布局。
type plainStore struct {
	core.Store
}

func TestStoreSource_PublishRoundTrip(t *testing.T) {
	ctx := context.Background()
	movies := []core.Movie{
		{Title: "Zodiac", Genres: "Drama", Director: "David Fincher", ReviewKey: "m/zodiac"},
		{Title: "Alien", Genres: "Horror", Director: "Ridley Scott"},
		{Title: "Zodiac", Genres: "Mystery", Director: "Someone Else"},
	}
	reviews := []core.ReviewRecord{{Key: "m/zodiac", RawScore: "A"}}

	ms := store.NewMemoryStore()
	defer ms.Close()
	plain := store.NewMemoryStore()
	defer plain.Close()

	backends := map[string]core.Store{
		"hash":  ms,
		"plain": plainStore{Store: plain},
	}
	for name, st := range backends {
		t.Run(name, func(t *testing.T) {
			n, err := Publish(ctx, st, "", "", movies, reviews)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			src := &StoreSource{Store: st}
			got, err := src.Movies(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			titles := []string{got[0].Title, got[1].Title}
			assert.ElementsMatch(t, []string{"Alien", "Zodiac"}, titles)
			for _, m := range got {
				if m.Title == "Zodiac" {
					assert.Equal(t, "David Fincher", m.Director)
				}
			}

			gotReviews, err := src.Reviews(ctx)
			require.NoError(t, err)
			assert.Equal(t, reviews, gotReviews)
		})
	}
}

func TestStoreSource_HashOrderIsSorted(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	_, err := Publish(ctx, ms, "m", "r", []core.Movie{{Title: "b"}, {Title: "c"}, {Title: "a"}}, nil)
	require.NoError(t, err)

	got, err := (&StoreSource{Store: ms, MoviesKey: "m", ReviewsKey: "r"}).Movies(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "b", got[1].Title)
	assert.Equal(t, "c", got[2].Title)
}

func TestStoreSource_Missing(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	src := &StoreSource{Store: ms}
	_, err := src.Movies(ctx)
	assert.True(t, core.IsDataUnavailable(err))
	_, err = src.Reviews(ctx)
	assert.True(t, core.IsDataUnavailable(err))

	_, err = (&StoreSource{}).Movies(ctx)
	assert.True(t, core.IsDataUnavailable(err))
}

func TestMemorySource(t *testing.T) {
	boom := errors.New("boom")
	src := &MemorySource{
		MovieRows:  []core.Movie{{Title: "Heat"}},
		ReviewsErr: boom,
	}
	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 1)

	_, err = src.Reviews(context.Background())
	assert.ErrorIs(t, err, boom)
}

type failingSource struct {
	moviesErr  error
	reviewsErr error
}

func (s *failingSource) Movies(context.Context) ([]core.Movie, error) {
	if s.moviesErr != nil {
		return nil, s.moviesErr
	}
	return []core.Movie{{Title: "Heat"}}, nil
}

func (s *failingSource) Reviews(context.Context) ([]core.ReviewRecord, error) {
	if s.reviewsErr != nil {
		return nil, s.reviewsErr
	}
	return []core.ReviewRecord{{Key: "k", RawScore: "A"}}, nil
}

func TestPrefetch(t *testing.T) {
	ctx := context.Background()

	snap, err := Prefetch(ctx, &failingSource{})
	require.NoError(t, err)
	assert.Len(t, snap.MovieRows, 1)
	assert.Len(t, snap.ReviewRows, 1)
	assert.NoError(t, snap.ReviewsErr)

	reviewsDown := core.NewDataUnavailable("reviews down", nil)
	snap, err = Prefetch(ctx, &failingSource{reviewsErr: reviewsDown})
	require.NoError(t, err)
	assert.Len(t, snap.MovieRows, 1)
	assert.ErrorIs(t, snap.ReviewsErr, reviewsDown)

	moviesDown := core.NewDataUnavailable("movies down", nil)
	_, err = Prefetch(ctx, &failingSource{moviesErr: moviesDown})
	assert.True(t, core.IsDataUnavailable(err))
}
