package model

// Movie is the sanitized shape of a movie returned by the external
// metadata provider. Only the fields the browse and booking flows
// need are kept; everything else in the provider payload is dropped.
//
// Fields:
//  ID          – provider identifier, carried into bookings as an opaque key.
//  Title       – display title.
//  Overview    – short synopsis.
//  PosterPath  – provider-relative poster image path (may be empty).
//  ReleaseDate – release date string as returned by the provider.
//  VoteAverage – provider rating, 0..10.
//  GenreIDs    – provider genre identifiers, mapped to names by the catalog.
type Movie struct {
    ID          int64    `json:"id"`
    Title       string   `json:"title"`
    Overview    string   `json:"overview"`
    PosterPath  string   `json:"poster_path"`
    ReleaseDate string   `json:"release_date"`
    VoteAverage float64  `json:"vote_average"`
    GenreIDs    []int64  `json:"genre_ids,omitempty"`
    Genres      []string `json:"genres,omitempty"`
}
