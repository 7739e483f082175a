package profiles

import (
	"sort"
	"strings"
)

// DefaultID is the profile used when none is requested
const DefaultID = GeneralID

// Registry holds every built-in profile by ID
var Registry = map[string]Profile{
	GeneralID:   general,
	CompactID:   compact,
	StudentID:   student,
	TechnicalID: technical,
}

// IDs returns the registered profile IDs in sorted order
func IDs() []string {
	ids := make([]string, 0, len(Registry))
	for id := range Registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the info of every registered profile, sorted by ID
func List() []Info {
	ids := IDs()
	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		p := Registry[id]
		infos = append(infos, p.Info())
	}
	return infos
}

// Get returns the extractor registered under id. IDs are matched case-insensitively.
func Get(id string) (Extractor, error) {
	p, ok := Registry[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, &NotFoundError{ID: id, Valid: IDs()}
	}
	return &p, nil
}

// Resolve looks up every id, failing on the first unknown one. An empty list resolves to
// every registered profile.
func Resolve(ids []string) ([]Extractor, error) {
	if len(ids) == 0 {
		ids = IDs()
	}
	extractors := make([]Extractor, 0, len(ids))
	for _, id := range ids {
		e, err := Get(id)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, e)
	}
	return extractors, nil
}
