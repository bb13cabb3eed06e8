package catalog

import "github.com/moviebook/moviebook/internal/model"

// genreNames maps the provider's numeric genre IDs to display names
// for the handful of genres the browse page groups by. Unknown IDs
// are simply skipped.
var genreNames = map[int64]string{
	28:    "Action",
	35:    "Comedy",
	18:    "Drama",
	27:    "Horror",
	10749: "Romance",
	878:   "Sci-Fi",
	16:    "Animation",
	53:    "Thriller",
	12:    "Adventure",
}

// GenreNames resolves provider genre IDs to known display names.
func GenreNames(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// GroupByGenre buckets movies under each known genre they carry, for
// the browse payload. A movie with several genres appears in several
// buckets; movies with no known genre are left out.
func GroupByGenre(movies []model.Movie) map[string][]model.Movie {
	grouped := make(map[string][]model.Movie)
	for _, m := range movies {
		for _, id := range m.GenreIDs {
			if name, ok := genreNames[id]; ok {
				grouped[name] = append(grouped[name], m)
			}
		}
	}
	return grouped
}
