package render

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// fallbackName is used for contacts without a usable surname.
const fallbackName = "card"

// FileNamer hands out output file names based on surnames. Repeated names
// get -2, -3, ... suffixes. A FileNamer is not safe for concurrent use.
type FileNamer struct {
	slug bool
	ext  string
	seen map[string]int
}

// NewFileNamer returns a namer producing names with the given extension.
// With useSlug set, surnames are transliterated to lowercase ASCII.
func NewFileNamer(ext string, useSlug bool) *FileNamer {
	return &FileNamer{slug: useSlug, ext: ext, seen: make(map[string]int)}
}

// Next returns the file name for surname.
func (n *FileNamer) Next(surname string) string {
	base := n.base(surname)

	name := base
	for i := 2; n.seen[strings.ToLower(name)] > 0; i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	n.seen[strings.ToLower(name)]++
	return name + n.ext
}

func (n *FileNamer) base(surname string) string {
	if n.slug {
		if s := slug.Make(surname); s != "" {
			return s
		}
		return fallbackName
	}

	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(surname))

	name = strings.Trim(name, ". ")
	if name == "" {
		return fallbackName
	}
	return name
}
