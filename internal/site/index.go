package site

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/tacogips/pipelinedoc/internal/template/render"
)

// DefaultIndexTitle is the index page heading.
const DefaultIndexTitle = "Pipeline Docs"

// Entry is one document listed on the index page.
type Entry struct {
	// Path is the template path, used as the link text.
	Path string
	// Href is the document path relative to the index page.
	Href string
	// Category groups entries under a sub-heading. Empty entries are listed
	// before any group.
	Category string
}

// indexTemplate lays out the index. Tags sit at line ends so each loop
// iteration contributes exactly one list line.
const indexTemplate = `{% autoescape off %}{{ heading }}
{% for link in links %}
- {{ link }}{% endfor %}{% for group in groups %}

{{ group.Heading }}
{% for link in group.Links %}
- {{ link }}{% endfor %}{% endfor %}
{% endautoescape %}`

var (
	indexSet = pongo2.NewSet("site", pongo2.MustNewLocalFileSystemLoader(""))
	indexTpl = pongo2.Must(indexSet.FromString(indexTemplate))

	blankRuns = regexp.MustCompile(`\n{3,}`)
)

type indexGroup struct {
	Heading string
	Links   []string
}

// RenderIndex renders the index page listing entries in the given order.
// When any entry has a category, categorized entries are grouped under
// level-2 headings sorted by name.
func RenderIndex(title string, entries []Entry) (string, error) {
	if title == "" {
		title = DefaultIndexTitle
	}

	var links []string
	grouped := map[string][]string{}
	for _, e := range entries {
		href := e.Href
		if href == "" {
			href = e.Path + ".md"
		}
		link := render.Link(e.Path, href)
		if e.Category == "" {
			links = append(links, link)
			continue
		}
		grouped[e.Category] = append(grouped[e.Category], link)
	}

	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	groups := make([]indexGroup, 0, len(categories))
	for _, c := range categories {
		groups = append(groups, indexGroup{Heading: render.Heading(c, 2), Links: grouped[c]})
	}

	out, err := indexTpl.Execute(pongo2.Context{
		"heading": render.Heading(title, 1),
		"links":   links,
		"groups":  groups,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}

	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimRight(out, " \n") + "\n", nil
}
