package parse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// idRe matches the trailing numeric segment of a resource path, e.g. "/pokemon/25/".
var idRe = regexp.MustCompile(`/(\d+)/?$`)

// ParsedResource holds the collection and id taken from an upstream resource URL.
type ParsedResource struct {
	Collection string
	ID         int
}

// ParseResourceURL extracts the collection name and numeric id from a resource
// URL such as "https://pokeapi.co/api/v2/pokemon/25/".
func ParseResourceURL(raw string) (ParsedResource, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedResource{}, fmt.Errorf("empty resource url")
	}

	u, err := url.Parse(s)
	if err != nil {
		return ParsedResource{}, fmt.Errorf("unable to parse resource url %q: %w", raw, err)
	}

	loc := idRe.FindStringSubmatchIndex(u.Path)
	if loc == nil {
		return ParsedResource{}, fmt.Errorf("no numeric id in resource url: %q", raw)
	}
	id, err := strconv.Atoi(u.Path[loc[2]:loc[3]])
	if err != nil {
		return ParsedResource{}, fmt.Errorf("id out of range in resource url %q: %w", raw, err)
	}

	// Collection is the segment just before the id.
	head := strings.TrimSuffix(u.Path[:loc[0]], "/")
	collection := head[strings.LastIndex(head, "/")+1:]

	return ParsedResource{Collection: collection, ID: id}, nil
}
