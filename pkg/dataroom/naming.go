package dataroom

import "fmt"

// UniqueName returns name unchanged if it does not appear in existing,
// otherwise the first "base (n)extension" that is free, with n counted up
// from 1. Gaps in existing numbering are filled: given {doc.pdf, doc (1).pdf,
// doc (3).pdf}, resolving doc.pdf yields doc (2).pdf.
//
// The extension is everything from the last dot that is not the first
// character, so "archive.tar.gz" splits into "archive.tar" + ".gz" and
// dotfiles like ".gitignore" have no extension.
//
// The function is pure: deterministic and free of side effects.
func UniqueName(name string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}
	if _, ok := taken[name]; !ok {
		return name
	}

	base, ext := splitExtension(name)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// splitExtension splits a name at the last dot that is not the first
// character. Names without such a dot have an empty extension.
func splitExtension(name string) (base, ext string) {
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i:]
		}
	}
	return name, ""
}
