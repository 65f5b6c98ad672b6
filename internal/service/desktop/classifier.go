package desktop

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
	models "webtop/internal/domain/models/desktop"
)

//go:embed classification.yaml
var classificationYAML []byte

type classificationTable struct {
	Kinds []struct {
		Kind       models.Kind `yaml:"kind"`
		Extensions []string    `yaml:"extensions"`
	} `yaml:"kinds"`
	Glyphs struct {
		ByKind      map[models.Kind]string `yaml:"by_kind"`
		ByExtension []struct {
			Glyph      string   `yaml:"glyph"`
			Extensions []string `yaml:"extensions"`
		} `yaml:"by_extension"`
		Link    string `yaml:"link"`
		Default string `yaml:"default"`
	} `yaml:"glyphs"`
}

// Classifier derives a resource kind and glyph from a file name or link
type Classifier struct {
	kindByExt  map[string]models.Kind
	glyphByExt map[string]string
	kindGlyphs map[models.Kind]string
	linkGlyph  string
	defGlyph   string
}

// NewClassifier loads the embedded extension tables
func NewClassifier() (*Classifier, error) {
	var table classificationTable
	if err := yaml.Unmarshal(classificationYAML, &table); err != nil {
		return nil, fmt.Errorf("unmarshal classification table: %w", err)
	}

	c := &Classifier{
		kindByExt:  make(map[string]models.Kind),
		glyphByExt: make(map[string]string),
		kindGlyphs: table.Glyphs.ByKind,
		linkGlyph:  table.Glyphs.Link,
		defGlyph:   table.Glyphs.Default,
	}

	for _, entry := range table.Kinds {
		if !entry.Kind.Valid() {
			return nil, fmt.Errorf("classification table: unknown kind %q", entry.Kind)
		}
		for _, ext := range entry.Extensions {
			if _, seen := c.kindByExt[ext]; !seen {
				c.kindByExt[ext] = entry.Kind
			}
		}
	}
	for _, entry := range table.Glyphs.ByExtension {
		for _, ext := range entry.Extensions {
			if _, seen := c.glyphByExt[ext]; !seen {
				c.glyphByExt[ext] = entry.Glyph
			}
		}
	}

	return c, nil
}

// MustNewClassifier is NewClassifier for wiring code; the table is compiled in
func MustNewClassifier() *Classifier {
	c, err := NewClassifier()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify fills in kind and glyph for a resource. Kind is derived only when
// it is other (or empty); a link whose extension matches nothing becomes a
// link. The glyph is derived only when empty, and the extension tables only
// apply to a derived kind: an explicit kind gets its kind glyph.
func (c *Classifier) Classify(res *models.Resource) {
	if !res.HasContent() {
		if res.Kind == "" {
			res.Kind = models.KindOther
		}
		return
	}

	ext := ""
	if res.Kind == "" || res.Kind == models.KindOther {
		ext = c.extension(res)
		res.Kind = models.KindOther
		if kind, ok := c.kindByExt[ext]; ok {
			res.Kind = kind
		} else if res.Link != "" {
			res.Kind = models.KindLink
		}
	}

	if res.IconGlyph == "" {
		res.IconGlyph = c.glyph(res.Kind, ext)
	}
}

func (c *Classifier) glyph(kind models.Kind, ext string) string {
	if g, ok := c.kindGlyphs[kind]; ok {
		return g
	}
	if g, ok := c.glyphByExt[ext]; ok {
		return g
	}
	if kind == models.KindLink {
		return c.linkGlyph
	}
	return c.defGlyph
}

// extension returns the lowercase extension of the stored file, or of the
// link's URL path (query and fragment ignored)
func (c *Classifier) extension(res *models.Resource) string {
	name := res.FilePath
	if name == "" {
		name = res.Link
		if u, err := url.Parse(res.Link); err == nil {
			name = u.Path
		}
	}
	return Extension(name)
}

// Extension returns the lowercase extension of the last path element, without the dot
func Extension(name string) string {
	base := path.Base(name)
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}
