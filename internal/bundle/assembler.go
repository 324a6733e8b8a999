package bundle

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cast"

	"github.com/mseals/cinematch/internal/models"
)

const (
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"
	trailerBaseURL = "https://youtube.com/watch?v="

	maxCast    = 5
	maxSimilar = 6
)

// Fetcher is the slice of the catalog client the assembler needs.
type Fetcher interface {
	FetchDetails(ctx context.Context, movieID int) (map[string]interface{}, bool)
	FetchCredits(ctx context.Context, movieID int) ([]models.CastMember, bool)
	FetchVideos(ctx context.Context, movieID int) ([]models.Video, bool)
	FetchSimilar(ctx context.Context, movieID int) ([]models.MovieSummary, bool)
}

// Assembler composes the four per-movie catalog calls into one Bundle.
// It holds no state and never caches; memoization is the session's job.
type Assembler struct {
	fetcher Fetcher
}

func New(f Fetcher) *Assembler {
	return &Assembler{fetcher: f}
}

// FetchBundle issues the four sub-fetches concurrently and merges the
// results. It never fails: unavailable or malformed data leaves the
// corresponding field empty.
func (a *Assembler) FetchBundle(ctx context.Context, movieID int) models.Bundle {
	var (
		details map[string]interface{}
		credits []models.CastMember
		videos  []models.Video
		similar []models.MovieSummary
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		details, _ = a.fetcher.FetchDetails(ctx, movieID)
	}()
	go func() {
		defer wg.Done()
		credits, _ = a.fetcher.FetchCredits(ctx, movieID)
	}()
	go func() {
		defer wg.Done()
		videos, _ = a.fetcher.FetchVideos(ctx, movieID)
	}()
	go func() {
		defer wg.Done()
		similar, _ = a.fetcher.FetchSimilar(ctx, movieID)
	}()
	wg.Wait()

	if details == nil {
		details = map[string]interface{}{}
	}
	if len(similar) > maxSimilar {
		similar = similar[:maxSimilar]
	}

	b := models.Bundle{
		ID:      movieID,
		Title:   cast.ToString(details["title"]),
		Details: details,
		Cast:    castNames(credits),
		Trailer: trailerURL(videos),
		Similar: similar,
		Runtime: FormatRuntime(cast.ToInt(details["runtime"])),
	}
	if poster := cast.ToString(details["poster_path"]); poster != "" {
		u := posterBaseURL + poster
		b.PosterURL = &u
	}
	return b
}

// castNames keeps the first maxCast names in catalog order.
func castNames(credits []models.CastMember) []string {
	names := make([]string, 0, maxCast)
	for _, c := range credits {
		if len(names) == maxCast {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

// trailerURL returns the URL of the first YouTube-hosted trailer, scanning
// in returned order, or nil when none exists.
func trailerURL(videos []models.Video) *string {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			u := trailerBaseURL + v.Key
			return &u
		}
	}
	return nil
}

// FormatRuntime renders minutes as "2h 13m", or "N/A" when unknown.
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
