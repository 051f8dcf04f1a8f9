package config

import (
	"os"
	"strings"
)

// CleanFileName removes characters not allowed in file names on the current
// platform. Leading dots are removed so result is never hidden or relative.
func CleanFileName(in string) string {
	bad := reservedFileNameRunes + string(os.PathSeparator) + string(os.PathListSeparator) + "/"
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(bad, sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(strings.TrimSpace(out)) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
