package pages

import "fmt"

// All returns the dashboard pages in navigation order.
func All() []Page {
	return []Page{
		overviewPage(),
		trendsPage(),
		geographyPage(),
		genresPage(),
		talentPage(),
	}
}

// Lookup finds a page by name.
func Lookup(name string) (Page, error) {
	for _, p := range All() {
		if p.Name == name {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

func Names() []string {
	pages := All()
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = p.Name
	}
	return names
}
