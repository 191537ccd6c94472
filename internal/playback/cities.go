package playback

// City is one entry of the practice pool.
type City struct {
	Name    string
	Country string
	Lat     float64
	Lng     float64
}

// cities is a small fixed pool; the real server draws from a much larger
// dataset, which a practice harness does not need.
var cities = []City{
	{"Paris", "France", 48.8566, 2.3522},
	{"Lima", "Peru", -12.0464, -77.0428},
	{"Oslo", "Norway", 59.9139, 10.7522},
	{"Tokyo", "Japan", 35.6762, 139.6503},
	{"Nairobi", "Kenya", -1.2921, 36.8219},
	{"Sydney", "Australia", -33.8688, 151.2093},
	{"Montreal", "Canada", 45.5017, -73.5673},
	{"Lisbon", "Portugal", 38.7223, -9.1393},
	{"Bangkok", "Thailand", 13.7563, 100.5018},
	{"Santiago", "Chile", -33.4489, -70.6693},
	{"Cairo", "Egypt", 30.0444, 31.2357},
	{"Helsinki", "Finland", 60.1699, 24.9384},
	{"Mumbai", "India", 19.076, 72.8777},
	{"Accra", "Ghana", 5.6037, -0.187},
	{"Auckland", "New Zealand", -36.8509, 174.7645},
	{"Reykjavik", "Iceland", 64.1466, -21.9426},
}
