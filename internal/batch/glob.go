package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveDocuments expands the CLI's document arguments into a sorted,
// de-duplicated list of PDF paths. Each argument is a literal file, a
// directory (all PDFs directly inside it), or a doublestar glob such as
// "reports/**/*.pdf".
func ResolveDocuments(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var docs []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			docs = append(docs, path)
		}
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil {
			if info.IsDir() {
				entries, err := os.ReadDir(arg)
				if err != nil {
					return nil, fmt.Errorf("read directory %s: %w", arg, err)
				}
				for _, entry := range entries {
					if entry.IsDir() {
						continue
					}
					if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
						add(filepath.Join(arg, entry.Name()))
					}
				}
				continue
			}
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no documents match %s", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(docs)
	return docs, nil
}
