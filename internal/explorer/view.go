package explorer

import (
	"sort"
	"strings"

	"github.com/snailsynk/snailsynk-go/internal/protocol"
)

// SortKey selects the entry attribute listings are ordered by.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByMTime SortKey = "mtime"
)

// Grouping controls whether folders and files are segregated before
// sorting within each group.
type Grouping string

const (
	GroupFoldersFirst Grouping = "folders-first"
	GroupFilesFirst   Grouping = "files-first"
	GroupNone         Grouping = "none"
)

// ViewOptions is the full presentation state of a listing. The zero
// value is not useful; use DefaultViewOptions.
type ViewOptions struct {
	Key       SortKey
	Ascending bool
	Grouping  Grouping
	Filter    string
}

func DefaultViewOptions() ViewOptions {
	return ViewOptions{Key: SortByName, Ascending: true, Grouping: GroupFoldersFirst}
}

// ApplyView filters and sorts a listing without mutating the input.
// Filtering is a case-insensitive substring match on the name and runs
// before grouping, so an empty group simply disappears.
func ApplyView(entries []protocol.FileEntry, opts ViewOptions) []protocol.FileEntry {
	out := make([]protocol.FileEntry, 0, len(entries))
	needle := strings.ToLower(opts.Filter)
	for _, e := range entries {
		if needle == "" || strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if g := groupRank(a, opts.Grouping) - groupRank(b, opts.Grouping); g != 0 {
			return g < 0
		}
		less := entryLess(a, b, opts.Key)
		if opts.Ascending {
			return less
		}
		return entryLess(b, a, opts.Key)
	})
	return out
}

func groupRank(e protocol.FileEntry, g Grouping) int {
	switch g {
	case GroupFoldersFirst:
		if e.Type == "folder" {
			return 0
		}
		return 1
	case GroupFilesFirst:
		if e.Type == "folder" {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func entryLess(a, b protocol.FileEntry, key SortKey) bool {
	if key == SortByMTime && a.MTime != b.MTime {
		return a.MTime < b.MTime
	}
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}
