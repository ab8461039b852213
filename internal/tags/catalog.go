package tags

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// Wildcard matches every tag in a search section
const Wildcard = "*"

type entry struct {
	searchName string
	tag        domain.Tag
	subtags    []entry
}

// Catalog is the flattened, searchable tag tree
type Catalog struct {
	roots []entry
	size  int
}

// NewCatalog builds a catalog from the served tree. Each tag's FullName is
// the slash-joined path of names from the root.
func NewCatalog(nodes []domain.TagNode) *Catalog {
	c := &Catalog{}
	c.roots = c.build("", nodes)
	return c
}

func (c *Catalog) build(prefix string, nodes []domain.TagNode) []entry {
	if len(nodes) == 0 {
		return nil
	}
	entries := make([]entry, len(nodes))
	for i, n := range nodes {
		fullName := prefix + n.Name
		entries[i] = entry{
			searchName: strings.ToLower(n.Name),
			tag:        domain.Tag{ID: n.ID, Name: n.Name, FullName: fullName},
			subtags:    c.build(fullName+"/", n.Subtags),
		}
		c.size++
	}
	return entries
}

// Len returns the number of tags in the catalog
func (c *Catalog) Len() int { return c.size }

// All returns every tag in depth-first order
func (c *Catalog) All() []domain.Tag {
	return collect(c.roots, Wildcard)
}

// Find returns the tags matching text. The text is split on "/": every
// section but the last narrows the search to the children of tags whose name
// contains it; the last section selects tags whose name contains it ("*"
// selects all). A selected tag brings its whole subtree along, and tags that
// do not match are still searched for matching descendants.
func (c *Catalog) Find(text string) []domain.Tag {
	sections := strings.Split(strings.ToLower(text), "/")

	filtered := c.roots
	for _, section := range sections[:len(sections)-1] {
		filtered = narrow(filtered, section)
	}
	return collect(filtered, sections[len(sections)-1])
}

func narrow(entries []entry, section string) []entry {
	var out []entry
	for _, e := range entries {
		if strings.Contains(e.searchName, section) {
			out = append(out, e.subtags...)
		}
	}
	return out
}

func collect(entries []entry, text string) []domain.Tag {
	var out []domain.Tag
	for _, e := range entries {
		if text == Wildcard || strings.Contains(e.searchName, text) {
			out = append(out, e.tag)
			out = append(out, collect(e.subtags, Wildcard)...)
		} else if len(e.subtags) > 0 {
			out = append(out, collect(e.subtags, text)...)
		}
	}
	return out
}

// Rank orders tags by how well their full name matches query: exact, prefix,
// contains, then fuzzy distance. Tags that do not match at all are dropped.
// Ties keep catalog order.
func Rank(query string, tags []domain.Tag) []domain.Tag {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tags
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = strings.ToLower(t.FullName)
	}

	// Candidates either contain the query or match it as a subsequence
	matched := make(map[int]bool)
	for _, r := range fuzzy.RankFindFold(query, names) {
		matched[r.OriginalIndex] = true
	}

	type ranked struct {
		tag   domain.Tag
		score int
	}
	var out []ranked
	for i, t := range tags {
		if !matched[i] && !strings.Contains(names[i], query) {
			continue
		}
		out = append(out, ranked{tag: t, score: matchScore(names[i], query)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score < out[j].score
	})

	result := make([]domain.Tag, len(out))
	for i, r := range out {
		result[i] = r.tag
	}
	return result
}

// matchScore scores a lowercase name against a lowercase query. Lower is better.
func matchScore(name, query string) int {
	if name == query {
		return 0
	}
	// A leaf name equal to the query is nearly as good as an exact path
	if leaf := name[strings.LastIndex(name, "/")+1:]; leaf == query {
		return 5
	}
	if strings.HasPrefix(name, query) {
		return 10
	}
	if strings.Contains(name, query) {
		return 50
	}
	return 100 + fuzzy.LevenshteinDistance(query, name)
}
