// Package classify maps source-tree paths to file kinds using a fixed
// extension table. Matching is case-sensitive.
package classify

import (
	"path"

	"github.com/starford/slngen/internal/models"
)

var (
	sourceExts   = []string{"c", "cpp", "cc", "cxx", "def", "odl", "idl", "hpj", "bat", "asm", "asmx"}
	headerExts   = []string{"h", "hh", "hpp", "hxx", "hm", "inl", "inc", "ipp", "xsd"}
	resourceExts = []string{
		"rc", "ico", "cur", "bmp", "dlg", "rc2", "rct", "bin", "rgs", "gif",
		"jpg", "jpeg", "jpe", "resx", "tiff", "tif", "png", "wav", "mfcribbon-ms",
	}
)

var table = buildTable()

func buildTable() map[string]models.Kind {
	t := make(map[string]models.Kind)
	add := func(exts []string, k models.Kind) {
		for _, e := range exts {
			if prev, dup := t[e]; dup {
				panic("classify: extension " + e + " listed as both " + prev.String() + " and " + k.String())
			}
			t[e] = k
		}
	}
	add(sourceExts, models.Source)
	add(headerExts, models.Header)
	add(resourceExts, models.Resource)
	return t
}

// Classify returns the kind of the file at p, or models.Unrecognized.
func Classify(p string) models.Kind {
	ext := path.Ext(p)
	if len(ext) < 2 {
		return models.Unrecognized
	}
	return table[ext[1:]]
}

// Extensions returns the extensions (without dot) registered for kind k.
func Extensions(k models.Kind) []string {
	var src []string
	switch k {
	case models.Source:
		src = sourceExts
	case models.Header:
		src = headerExts
	case models.Resource:
		src = resourceExts
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
