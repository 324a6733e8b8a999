package models

// Movie is one entry of the catalog snapshot. The catalog is loaded once at
// startup and never mutated; identity is the TMDB id.
type Movie struct {
	ID    int    `json:"movie_id"`
	Title string `json:"title"`
}

// Recommendation is one ranked neighbor returned by the similarity index.
type Recommendation struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MovieSummary is the shape TMDB returns for list endpoints
// (similar, trending). Fields we don't render are dropped at decode time.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// CastMember is one entry of a TMDB /credits cast list.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// Video is one entry of a TMDB /videos response.
type Video struct {
	Key  string `json:"key"`
	Type string `json:"type"`
	Site string `json:"site"`
}

// Bundle is the denormalized per-movie display payload. Absent remote data
// degrades to empty fields; a Bundle is never an error. Immutable once cached.
type Bundle struct {
	ID      int                    `json:"id"`
	Title   string                 `json:"title"`
	Details map[string]interface{} `json:"details"`
	Cast    []string               `json:"cast"`
	Trailer *string                `json:"trailer,omitempty"`
	Similar []MovieSummary         `json:"similar"`

	// Derived presentation fields assembled from Details.
	PosterURL *string `json:"poster_url,omitempty"`
	Runtime   string  `json:"runtime,omitempty"`
}
