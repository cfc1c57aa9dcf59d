package backfill

import (
	"strings"

	"github.com/baliomega/nextflix/internal/media"
)

type knownTitle struct {
	kind     media.Kind
	cast     []string
	director string
	genres   []string
}

// knownTitles is keyed by normalizeText output.
var knownTitles = map[string]knownTitle{
	"inception": {
		kind:     media.KindMovie,
		cast:     []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page", "Tom Hardy"},
		director: "Christopher Nolan",
		genres:   []string{"Action", "Science Fiction", "Adventure"},
	},
	"interstellar": {
		kind:     media.KindMovie,
		cast:     []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"},
		director: "Christopher Nolan",
		genres:   []string{"Adventure", "Drama", "Science Fiction"},
	},
	"the dark knight": {
		kind:     media.KindMovie,
		cast:     []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
		director: "Christopher Nolan",
		genres:   []string{"Drama", "Action", "Crime", "Thriller"},
	},
	"dune": {
		kind:     media.KindMovie,
		cast:     []string{"Timothée Chalamet", "Rebecca Ferguson", "Oscar Isaac", "Zendaya"},
		director: "Denis Villeneuve",
		genres:   []string{"Science Fiction", "Adventure"},
	},
	"the matrix": {
		kind:     media.KindMovie,
		cast:     []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss"},
		director: "Lana Wachowski, Lilly Wachowski",
		genres:   []string{"Action", "Science Fiction"},
	},
	"parasite": {
		kind:     media.KindMovie,
		cast:     []string{"Song Kang-ho", "Lee Sun-kyun", "Cho Yeo-jeong"},
		director: "Bong Joon-ho",
		genres:   []string{"Comedy", "Thriller", "Drama"},
	},
	"la la land": {
		kind:     media.KindMovie,
		cast:     []string{"Ryan Gosling", "Emma Stone"},
		director: "Damien Chazelle",
		genres:   []string{"Comedy", "Drama", "Romance", "Music"},
	},
	"spirited away": {
		kind:     media.KindMovie,
		cast:     []string{"Rumi Hiiragi", "Miyu Irino"},
		director: "Hayao Miyazaki",
		genres:   []string{"Animation", "Family", "Fantasy"},
	},
	"breaking bad": {
		kind:     media.KindSeries,
		cast:     []string{"Bryan Cranston", "Aaron Paul", "Anna Gunn"},
		director: "Vince Gilligan",
		genres:   []string{"Drama", "Crime"},
	},
	"stranger things": {
		kind:     media.KindSeries,
		cast:     []string{"Millie Bobby Brown", "Winona Ryder", "David Harbour"},
		director: "Matt Duffer, Ross Duffer",
		genres:   []string{"Drama", "Sci-Fi & Fantasy", "Mystery"},
	},
	"the last of us": {
		kind:     media.KindSeries,
		cast:     []string{"Pedro Pascal", "Bella Ramsey"},
		director: "Craig Mazin, Neil Druckmann",
		genres:   []string{"Drama"},
	},
	"severance": {
		kind:     media.KindSeries,
		cast:     []string{"Adam Scott", "Britt Lower", "Patricia Arquette"},
		director: "Dan Erickson",
		genres:   []string{"Drama", "Mystery", "Sci-Fi & Fantasy"},
	},
	"game of thrones": {
		kind:     media.KindSeries,
		cast:     []string{"Emilia Clarke", "Kit Harington", "Peter Dinklage"},
		director: "David Benioff, D. B. Weiss",
		genres:   []string{"Sci-Fi & Fantasy", "Drama", "Action & Adventure"},
	},
}

type genreRule struct {
	keywords []string
	movie    string
	series   string
}

// matches reports whether any keyword appears as whole words in text, which
// must be normalized and padded with spaces.
func (r genreRule) matches(text string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(text, " "+kw+" ") {
			return true
		}
	}
	return false
}

// genreRules run in order; series names are used for series entries when set.
var genreRules = []genreRule{
	{keywords: []string{"space", "alien", "aliens", "planet", "spacecraft", "wormhole", "robot", "time travel"}, movie: "Science Fiction", series: "Sci-Fi & Fantasy"},
	{keywords: []string{"murder", "detective", "heist", "thief", "gangster", "cartel", "crime"}, movie: "Crime", series: "Crime"},
	{keywords: []string{"love", "romance", "romantic", "falls for"}, movie: "Romance", series: "Drama"},
	{keywords: []string{"war", "soldier", "soldiers", "battle"}, movie: "War", series: "War & Politics"},
	{keywords: []string{"haunted", "ghost", "demon", "zombie", "zombies", "possessed"}, movie: "Horror", series: "Mystery"},
	{keywords: []string{"comedy", "hilarious", "funny", "sitcom"}, movie: "Comedy", series: "Comedy"},
	{keywords: []string{"animated", "animation", "anime"}, movie: "Animation", series: "Animation"},
	{keywords: []string{"documentary", "true story of", "behind the scenes"}, movie: "Documentary", series: "Documentary"},
	{keywords: []string{"mystery", "mysterious", "vanishes", "disappearance"}, movie: "Mystery", series: "Mystery"},
	{keywords: []string{"wizard", "witch", "witches", "dragon", "dragons", "magic", "spirits"}, movie: "Fantasy", series: "Sci-Fi & Fantasy"},
	{keywords: []string{"musician", "singer", "band", "jazz", "musical"}, movie: "Music", series: "Drama"},
	{keywords: []string{"family"}, movie: "Family", series: "Family"},
	{keywords: []string{"conspiracy", "assassin", "hostage", "spy"}, movie: "Thriller", series: "Action & Adventure"},
	{keywords: []string{"cowboy", "outlaw", "frontier"}, movie: "Western", series: "Western"},
}
