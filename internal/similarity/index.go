package similarity

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/mseals/cinematch/internal/models"
)

// ErrNotFound is returned by Recommend when the title has no catalog entry.
var ErrNotFound = errors.New("title not found in catalog")

// topK is how many neighbors Recommend returns at most.
const topK = 5

// Index answers nearest-neighbor queries over the precomputed similarity
// matrix. Rows and columns are aligned by position to the catalog order.
// An Index is read-only after construction.
type Index struct {
	movies []models.Movie
	matrix [][]float64
}

// New builds an index and validates that the matrix is square and matches
// the catalog length.
func New(movies []models.Movie, matrix [][]float64) (*Index, error) {
	if len(matrix) != len(movies) {
		return nil, fmt.Errorf("similarity matrix has %d rows for %d catalog entries", len(matrix), len(movies))
	}
	for i, row := range matrix {
		if len(row) != len(movies) {
			return nil, fmt.Errorf("similarity matrix row %d has %d columns, want %d", i, len(row), len(movies))
		}
	}
	return &Index{movies: movies, matrix: matrix}, nil
}

// Load reads the catalog and similarity snapshot files produced by the
// offline training pipeline.
func Load(catalogPath, similarityPath string) (*Index, error) {
	catalogData, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}
	var movies []models.Movie
	if err := json.Unmarshal(catalogData, &movies); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot: %w", err)
	}

	matrixData, err := os.ReadFile(similarityPath)
	if err != nil {
		return nil, fmt.Errorf("read similarity snapshot: %w", err)
	}
	var matrix [][]float64
	if err := json.Unmarshal(matrixData, &matrix); err != nil {
		return nil, fmt.Errorf("parse similarity snapshot: %w", err)
	}

	idx, err := New(movies, matrix)
	if err != nil {
		return nil, err
	}
	log.Printf("[similarity] loaded %d catalog entries", len(movies))
	return idx, nil
}

// Size returns the number of catalog entries.
func (idx *Index) Size() int {
	return len(idx.movies)
}

// Titles returns all catalog titles in lexical order, for search boxes.
func (idx *Index) Titles() []string {
	titles := make([]string, len(idx.movies))
	for i, m := range idx.movies {
		titles[i] = m.Title
	}
	sort.Strings(titles)
	return titles
}

// Recommend returns up to topK neighbors of the given title, ranked by
// descending similarity. The title must match a catalog entry exactly; on
// duplicate titles the first catalog occurrence wins. The top-ranked row
// entry is the query movie itself (self-similarity is maximal) and is
// dropped before truncation.
func (idx *Index) Recommend(title string) ([]models.Recommendation, error) {
	row := -1
	for i, m := range idx.movies {
		if m.Title == title {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, ErrNotFound
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(idx.matrix[row]))
	for i, score := range idx.matrix[row] {
		ranked[i] = scored{index: i, score: score}
	}
	// Stable: equal scores keep catalog order.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	ranked = ranked[1:]
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	recs := make([]models.Recommendation, len(ranked))
	for i, s := range ranked {
		recs[i] = models.Recommendation{
			ID:    idx.movies[s.index].ID,
			Title: idx.movies[s.index].Title,
		}
	}
	return recs, nil
}
