package bundle

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mseals/cinematch/internal/models"
)

// fakeFetcher returns canned responses and counts calls per endpoint.
type fakeFetcher struct {
	details map[string]interface{}
	credits []models.CastMember
	videos  []models.Video
	similar []models.MovieSummary
	ok      bool

	detailsCalls, creditsCalls, videosCalls, similarCalls atomic.Int32
}

func (f *fakeFetcher) FetchDetails(ctx context.Context, id int) (map[string]interface{}, bool) {
	f.detailsCalls.Add(1)
	return f.details, f.ok
}

func (f *fakeFetcher) FetchCredits(ctx context.Context, id int) ([]models.CastMember, bool) {
	f.creditsCalls.Add(1)
	return f.credits, f.ok
}

func (f *fakeFetcher) FetchVideos(ctx context.Context, id int) ([]models.Video, bool) {
	f.videosCalls.Add(1)
	return f.videos, f.ok
}

func (f *fakeFetcher) FetchSimilar(ctx context.Context, id int) ([]models.MovieSummary, bool) {
	f.similarCalls.Add(1)
	return f.similar, f.ok
}

func TestFetchBundleComposition(t *testing.T) {
	f := &fakeFetcher{
		ok: true,
		details: map[string]interface{}{
			"title":       "Inception",
			"poster_path": "/poster.jpg",
			"runtime":     float64(148), // JSON numbers decode as float64
		},
		credits: []models.CastMember{
			{Name: "Leonardo DiCaprio"}, {Name: "Joseph Gordon-Levitt"}, {Name: "Elliot Page"},
			{Name: "Tom Hardy"}, {Name: "Ken Watanabe"}, {Name: "Cillian Murphy"}, {Name: "Marion Cotillard"},
		},
		videos: []models.Video{
			{Type: "Trailer", Site: "YouTube", Key: "trailer-key"},
		},
		similar: []models.MovieSummary{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7}, {ID: 8},
		},
	}

	b := New(f).FetchBundle(context.Background(), 27205)

	assert.Equal(t, 27205, b.ID)
	assert.Equal(t, "Inception", b.Title)
	assert.Equal(t, []string{
		"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page", "Tom Hardy", "Ken Watanabe",
	}, b.Cast, "cast is capped at 5, in returned order")

	require.NotNil(t, b.Trailer)
	assert.Equal(t, "https://youtube.com/watch?v=trailer-key", *b.Trailer)

	require.Len(t, b.Similar, 6, "similar is capped at 6")
	assert.Equal(t, 1, b.Similar[0].ID)

	require.NotNil(t, b.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", *b.PosterURL)
	assert.Equal(t, "2h 28m", b.Runtime)
}

func TestFetchBundleIssuesExactlyFourCalls(t *testing.T) {
	f := &fakeFetcher{ok: true}
	New(f).FetchBundle(context.Background(), 1)

	assert.Equal(t, int32(1), f.detailsCalls.Load())
	assert.Equal(t, int32(1), f.creditsCalls.Load())
	assert.Equal(t, int32(1), f.videosCalls.Load())
	assert.Equal(t, int32(1), f.similarCalls.Load())
}

func TestFetchBundleDegradesWhenUnavailable(t *testing.T) {
	f := &fakeFetcher{ok: false}
	b := New(f).FetchBundle(context.Background(), 99)

	assert.Equal(t, 99, b.ID)
	assert.NotNil(t, b.Details)
	assert.Empty(t, b.Details)
	assert.Empty(t, b.Cast)
	assert.Nil(t, b.Trailer)
	assert.Empty(t, b.Similar)
	assert.Nil(t, b.PosterURL)
	assert.Equal(t, "N/A", b.Runtime)
}

func TestTrailerPicksFirstYouTubeTrailer(t *testing.T) {
	f := &fakeFetcher{
		ok: true,
		videos: []models.Video{
			{Type: "Teaser", Site: "YouTube", Key: "a"},
			{Type: "Trailer", Site: "Vimeo", Key: "b"},
			{Type: "Trailer", Site: "YouTube", Key: "c"},
			{Type: "Trailer", Site: "YouTube", Key: "d"},
		},
	}
	b := New(f).FetchBundle(context.Background(), 1)

	require.NotNil(t, b.Trailer)
	assert.Equal(t, "https://youtube.com/watch?v=c", *b.Trailer)
}

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "N/A"},
		{-5, "N/A"},
		{59, "0h 59m"},
		{60, "1h 0m"},
		{136, "2h 16m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRuntime(tt.minutes))
	}
}
