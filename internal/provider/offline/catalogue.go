package offline

type title struct {
	id          int64
	mediaType   string
	name        string
	poster      string
	backdrop    string
	overview    string
	releaseDate string
	vote        float64
	genreIDs    []int
	cast        []string
	crew        [][2]string
}

// Rows in the 9000000 range are synthetic and exist to exercise the
// aggregator's filters (no artwork, zero rating, person results).
var catalogue = []title{
	{
		id: 27205, mediaType: "movie", name: "Inception",
		poster: "/offline/inception-poster.jpg", backdrop: "/offline/inception-backdrop.jpg",
		overview:    "Cobb, a skilled thief who steals secrets from deep within the subconscious during the dream state, is offered a chance at redemption if he can plant an idea instead.",
		releaseDate: "2010-07-15", vote: 8.4, genreIDs: []int{28, 878, 12},
		cast: []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page", "Tom Hardy", "Ken Watanabe", "Cillian Murphy", "Marion Cotillard", "Michael Caine"},
		crew: [][2]string{{"Hans Zimmer", "Original Music Composer"}, {"Christopher Nolan", "Director"}},
	},
	{
		id: 157336, mediaType: "movie", name: "Interstellar",
		poster: "/offline/interstellar-poster.jpg", backdrop: "/offline/interstellar-backdrop.jpg",
		overview:    "A team of explorers travels through a wormhole in space in an attempt to ensure humanity's survival.",
		releaseDate: "2014-11-05", vote: 8.4, genreIDs: []int{12, 18, 878},
		cast: []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain", "Michael Caine", "Mackenzie Foy"},
		crew: [][2]string{{"Christopher Nolan", "Director"}, {"Emma Thomas", "Producer"}},
	},
	{
		id: 155, mediaType: "movie", name: "The Dark Knight",
		poster: "/offline/dark-knight-poster.jpg", backdrop: "/offline/dark-knight-backdrop.jpg",
		overview:    "Batman raises the stakes in his war on crime and faces a criminal mastermind known as the Joker.",
		releaseDate: "2008-07-16", vote: 8.5, genreIDs: []int{18, 28, 80, 53},
		cast: []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart", "Gary Oldman", "Maggie Gyllenhaal"},
		crew: [][2]string{{"Christopher Nolan", "Director"}},
	},
	{
		id: 438631, mediaType: "movie", name: "Dune",
		poster: "/offline/dune-poster.jpg", backdrop: "/offline/dune-backdrop.jpg",
		overview:    "Paul Atreides, a brilliant and gifted young man, must travel to the most dangerous planet in the universe to ensure the future of his family and his people.",
		releaseDate: "2021-09-15", vote: 7.8, genreIDs: []int{878, 12},
		cast: []string{"Timothée Chalamet", "Rebecca Ferguson", "Oscar Isaac", "Josh Brolin", "Zendaya"},
		crew: [][2]string{{"Denis Villeneuve", "Director"}},
	},
	{
		id: 693134, mediaType: "movie", name: "Dune: Part Two",
		poster: "/offline/dune-part-two-poster.jpg", backdrop: "/offline/dune-part-two-backdrop.jpg",
		overview:    "Paul Atreides unites with Chani and the Fremen while on a path of revenge against the conspirators who destroyed his family.",
		releaseDate: "2024-02-27", vote: 8.2, genreIDs: []int{878, 12},
		cast: []string{"Timothée Chalamet", "Zendaya", "Rebecca Ferguson", "Javier Bardem", "Austin Butler"},
		crew: [][2]string{{"Denis Villeneuve", "Director"}},
	},
	{
		id: 9000002, mediaType: "movie", name: "Dune: Extended Preview",
		poster:      "/offline/dune-preview-poster.jpg",
		overview:    "An unrated preview cut of the desert epic.",
		releaseDate: "2021-06-01", vote: 0, genreIDs: []int{878},
	},
	{
		id: 313369, mediaType: "movie", name: "La La Land",
		poster: "/offline/la-la-land-poster.jpg", backdrop: "/offline/la-la-land-backdrop.jpg",
		overview:    "Mia, an aspiring actress, and Sebastian, a dedicated jazz musician, struggle to make ends meet in a city known for crushing hopes and breaking hearts.",
		releaseDate: "2016-11-29", vote: 7.9, genreIDs: []int{35, 18, 10749, 10402},
		cast: []string{"Ryan Gosling", "Emma Stone", "John Legend", "J.K. Simmons"},
		crew: [][2]string{{"Damien Chazelle", "Director"}, {"Justin Hurwitz", "Original Music Composer"}},
	},
	{
		id: 496243, mediaType: "movie", name: "Parasite",
		poster: "/offline/parasite-poster.jpg", backdrop: "/offline/parasite-backdrop.jpg",
		overview:    "All unemployed, Ki-taek's family takes peculiar interest in the wealthy Park family and infiltrates their household.",
		releaseDate: "2019-05-30", vote: 8.5, genreIDs: []int{35, 53, 18},
		cast: []string{"Song Kang-ho", "Lee Sun-kyun", "Cho Yeo-jeong", "Choi Woo-shik", "Park So-dam"},
		crew: [][2]string{{"Bong Joon-ho", "Director"}},
	},
	{
		id: 329865, mediaType: "movie", name: "Arrival",
		poster: "/offline/arrival-poster.jpg", backdrop: "/offline/arrival-backdrop.jpg",
		overview:    "A linguist is recruited by the military to communicate with alien lifeforms after twelve mysterious spacecraft appear around the world.",
		releaseDate: "2016-11-10", vote: 7.6, genreIDs: []int{18, 878, 9648},
		cast: []string{"Amy Adams", "Jeremy Renner", "Forest Whitaker", "Michael Stuhlbarg"},
		crew: [][2]string{{"Denis Villeneuve", "Director"}},
	},
	{
		id: 603, mediaType: "movie", name: "The Matrix",
		poster: "/offline/matrix-poster.jpg", backdrop: "/offline/matrix-backdrop.jpg",
		overview:    "A computer hacker learns that the world he lives in is a simulation and joins a rebellion against its machine overlords.",
		releaseDate: "1999-03-30", vote: 8.2, genreIDs: []int{28, 878},
		cast: []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss", "Hugo Weaving"},
		crew: [][2]string{{"Lana Wachowski", "Director"}, {"Lilly Wachowski", "Director"}},
	},
	{
		id: 129, mediaType: "movie", name: "Spirited Away",
		poster: "/offline/spirited-away-poster.jpg", backdrop: "/offline/spirited-away-backdrop.jpg",
		overview:    "A young girl wanders into a world ruled by gods, witches, and spirits, where humans are changed into beasts.",
		releaseDate: "2001-07-20", vote: 8.5, genreIDs: []int{16, 10751, 14},
		cast: []string{"Rumi Hiiragi", "Miyu Irino", "Mari Natsuki"},
		crew: [][2]string{{"Hayao Miyazaki", "Director"}},
	},
	{
		id: 949, mediaType: "movie", name: "Heat",
		poster: "/offline/heat-poster.jpg", backdrop: "/offline/heat-backdrop.jpg",
		overview:    "Obsessive master thief Neil McCauley leads a top-notch crew on various daring heists throughout Los Angeles while a detective tracks his every move.",
		releaseDate: "1995-12-15", vote: 7.9, genreIDs: []int{28, 80, 18, 53},
		cast: []string{"Al Pacino", "Robert De Niro", "Val Kilmer", "Jon Voight"},
		crew: [][2]string{{"Michael Mann", "Director"}},
	},
	{
		id: 9000001, mediaType: "movie", name: "Inception: Behind the Dream",
		overview:    "A featurette on the making of the heist thriller.",
		releaseDate: "2010-12-07", vote: 6.1, genreIDs: []int{99},
	},
	{
		id: 66732, mediaType: "tv", name: "Stranger Things",
		poster: "/offline/stranger-things-poster.jpg", backdrop: "/offline/stranger-things-backdrop.jpg",
		overview:    "When a young boy vanishes, a small town uncovers a mystery involving secret experiments, terrifying supernatural forces, and one strange little girl.",
		releaseDate: "2016-07-15", vote: 8.6, genreIDs: []int{18, 10765, 9648},
		cast: []string{"Millie Bobby Brown", "Winona Ryder", "David Harbour", "Finn Wolfhard"},
		crew: [][2]string{{"Matt Duffer", "Creator"}, {"Ross Duffer", "Creator"}, {"Shawn Levy", "Executive Producer"}},
	},
	{
		id: 1396, mediaType: "tv", name: "Breaking Bad",
		poster: "/offline/breaking-bad-poster.jpg", backdrop: "/offline/breaking-bad-backdrop.jpg",
		overview:    "A high school chemistry teacher diagnosed with terminal cancer turns to manufacturing methamphetamine to secure his family's future.",
		releaseDate: "2008-01-20", vote: 8.9, genreIDs: []int{18, 80},
		cast: []string{"Bryan Cranston", "Aaron Paul", "Anna Gunn", "Dean Norris"},
		crew: [][2]string{{"Vince Gilligan", "Creator"}},
	},
	{
		id: 95396, mediaType: "tv", name: "Severance",
		poster: "/offline/severance-poster.jpg", backdrop: "/offline/severance-backdrop.jpg",
		overview:    "Mark leads a team of office workers whose memories have been surgically divided between their work and personal lives.",
		releaseDate: "2022-02-17", vote: 8.4, genreIDs: []int{18, 9648, 10765},
		cast: []string{"Adam Scott", "Britt Lower", "Patricia Arquette", "John Turturro"},
		crew: [][2]string{{"Dan Erickson", "Creator"}, {"Ben Stiller", "Executive Producer"}},
	},
	{
		id: 100088, mediaType: "tv", name: "The Last of Us",
		poster: "/offline/last-of-us-poster.jpg", backdrop: "/offline/last-of-us-backdrop.jpg",
		overview:    "Twenty years after modern civilization has been destroyed, Joel is hired to smuggle Ellie out of an oppressive quarantine zone.",
		releaseDate: "2023-01-15", vote: 8.6, genreIDs: []int{18},
		cast: []string{"Pedro Pascal", "Bella Ramsey", "Gabriel Luna"},
		crew: [][2]string{{"Craig Mazin", "Creator"}, {"Neil Druckmann", "Creator"}},
	},
	{
		id: 1399, mediaType: "tv", name: "Game of Thrones",
		poster: "/offline/game-of-thrones-poster.jpg", backdrop: "/offline/game-of-thrones-backdrop.jpg",
		overview:    "Seven noble families fight for control of the mythical land of Westeros while an ancient enemy returns after being dormant for millennia.",
		releaseDate: "2011-04-17", vote: 8.5, genreIDs: []int{10765, 18, 10759},
		cast: []string{"Emilia Clarke", "Kit Harington", "Peter Dinklage", "Lena Headey"},
		crew: [][2]string{{"David Benioff", "Creator"}, {"D. B. Weiss", "Creator"}},
	},
	{
		id: 136315, mediaType: "tv", name: "The Bear",
		poster: "/offline/the-bear-poster.jpg", backdrop: "/offline/the-bear-backdrop.jpg",
		overview:    "A young chef from the fine dining world returns to Chicago to run his family's sandwich shop.",
		releaseDate: "2022-06-23", vote: 8.1, genreIDs: []int{18, 35},
		cast: []string{"Jeremy Allen White", "Ebon Moss-Bachrach", "Ayo Edebiri"},
		crew: [][2]string{{"Christopher Storer", "Creator"}},
	},
	{
		id: 6193, mediaType: "person", name: "Leonardo DiCaprio",
		poster:   "/offline/dicaprio-profile.jpg",
		overview: "Actor known for Inception and The Revenant.",
	},
}
