package domain

// Dj is the core row of a DJ profile. Associations to genres, subgenres,
// and venues live in join tables and are loaded separately.
type Dj struct {
	Record
	Name        string `json:"name"`
	Produces    bool   `json:"produces"`
	City        string `json:"city"`
	PicturePath string `json:"picture_path,omitempty"`
	BlurHash    string `json:"blur_hash,omitempty"`
}

// Genre is a top-level music category, e.g. "Drum & Bass".
// Names are canonical: alias-resolved and title-cased before storage.
type Genre struct {
	Record
	Title string `json:"title"`
}

// Subgenre is a finer category scoped to a single genre,
// e.g. "Jump Up" under "Drum & Bass".
type Subgenre struct {
	Record
	Subtitle string `json:"subtitle"`
	GenreID  string `json:"genre_id"`
}

// SubgenreWithGenre pairs a subgenre with its parent genre's title,
// as loaded by association queries.
type SubgenreWithGenre struct {
	Subgenre
	GenreTitle string `json:"genre_title"`
}

// Venue is a place a DJ plays, e.g. "Fabric".
type Venue struct {
	Record
	Venuename string `json:"venuename"`
}

// DjAssociations holds a DJ's loaded join rows in insertion order.
type DjAssociations struct {
	Genres    []Genre
	Subgenres []SubgenreWithGenre
	Venues    []Venue
}

// DjView is the denormalized read model served by the API.
//
// Genres lists the parent genres of the DJ's subgenres; AllGenres
// additionally includes genres associated directly with no subgenre
// under them. Subgenres maps genre title to that genre's subgenre titles.
type DjView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Produces    bool                `json:"produces"`
	City        string              `json:"city"`
	PicturePath string              `json:"picture_path,omitempty"`
	BlurHash    string              `json:"blur_hash,omitempty"`
	Genres      []string            `json:"genres"`
	AllGenres   []string            `json:"all_genres"`
	Subgenres   map[string][]string `json:"subgenres"`
	Venues      []string            `json:"venues"`
}
