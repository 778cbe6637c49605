package model

import (
	"strconv"
	"strings"
)

type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
}

// Year returns the release year or an empty string when the date is unknown.
func (m Movie) Year() string {
	date := strings.TrimSpace(m.ReleaseDate)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

type SpokenLanguage struct {
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

type MovieDetails struct {
	Movie
	Runtime             int                 `json:"runtime"`
	Genres              []Genre             `json:"genres"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Homepage            string              `json:"homepage"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

// Summary returns the list-level record of a detailed movie. TMDB omits genre_ids on
// the detail endpoint, so they are rebuilt from the genre objects.
func (d MovieDetails) Summary() Movie {
	movie := d.Movie
	if len(movie.GenreIDs) == 0 && len(d.Genres) > 0 {
		movie.GenreIDs = make([]int, 0, len(d.Genres))
		for _, genre := range d.Genres {
			movie.GenreIDs = append(movie.GenreIDs, genre.ID)
		}
	}
	return movie
}

func (d MovieDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, genre := range d.Genres {
		if genre.Name != "" {
			names = append(names, genre.Name)
		}
	}
	return names
}

type MoviesPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// FormatUSD renders whole dollars with thousands separators, or "" when the amount is unknown.
func FormatUSD(amount int64) string {
	if amount <= 0 {
		return ""
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.WriteString("$")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
