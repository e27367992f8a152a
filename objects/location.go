package objects

// Location is a meetup spot users can pick when an exchange is accepted.
// The table is static; locations are not negotiable entities.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var meetupLocations = []Location{
	{ID: 1, Name: "Main Gate Roundabout"},
	{ID: 2, Name: "North Dorm Convenience Store"},
	{ID: 3, Name: "Gymnasium Basketball Court"},
}

// Locations returns the meetup location table in display order
func Locations() []Location {
	out := make([]Location, len(meetupLocations))
	copy(out, meetupLocations)
	return out
}

// LocationName resolves a meetup location id to its display name
func LocationName(id int) (string, bool) {
	for _, loc := range meetupLocations {
		if loc.ID == id {
			return loc.Name, true
		}
	}
	return "", false
}
