package explorer

import (
	"testing"

	"github.com/snailsynk/snailsynk-go/internal/protocol"
)

func sampleEntries() []protocol.FileEntry {
	return []protocol.FileEntry{
		{Name: "zebra.txt", Type: "file", MTime: 300},
		{Name: "Alpha.txt", Type: "file", MTime: 100},
		{Name: "photos", Type: "folder", MTime: 200},
		{Name: "beta.txt", Type: "file", MTime: 400},
		{Name: "archive", Type: "folder", MTime: 500},
	}
}

func names(entries []protocol.FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func assertOrder(t *testing.T, got []protocol.FileEntry, want ...string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, gotNames)
		}
	}
}

func TestApplyView_NameAscendingFoldersFirst(t *testing.T) {
	got := ApplyView(sampleEntries(), DefaultViewOptions())
	assertOrder(t, got, "archive", "photos", "Alpha.txt", "beta.txt", "zebra.txt")
}

func TestApplyView_DescendingReversesWithinGroups(t *testing.T) {
	opts := DefaultViewOptions()
	opts.Ascending = false
	got := ApplyView(sampleEntries(), opts)
	// Direction flips inside each group; folders still lead.
	assertOrder(t, got, "photos", "archive", "zebra.txt", "beta.txt", "Alpha.txt")
}

func TestApplyView_MTimeDescendingFoldersFirst(t *testing.T) {
	opts := ViewOptions{Key: SortByMTime, Ascending: false, Grouping: GroupFoldersFirst}
	got := ApplyView(sampleEntries(), opts)
	assertOrder(t, got, "archive", "photos", "beta.txt", "zebra.txt", "Alpha.txt")
}

func TestApplyView_FilesFirst(t *testing.T) {
	opts := ViewOptions{Key: SortByName, Ascending: true, Grouping: GroupFilesFirst}
	got := ApplyView(sampleEntries(), opts)
	assertOrder(t, got, "Alpha.txt", "beta.txt", "zebra.txt", "archive", "photos")
}

func TestApplyView_NoGrouping(t *testing.T) {
	opts := ViewOptions{Key: SortByName, Ascending: true, Grouping: GroupNone}
	got := ApplyView(sampleEntries(), opts)
	assertOrder(t, got, "Alpha.txt", "archive", "beta.txt", "photos", "zebra.txt")
}

func TestApplyView_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	opts := DefaultViewOptions()
	opts.Filter = "ALPHA"
	got := ApplyView(sampleEntries(), opts)
	assertOrder(t, got, "Alpha.txt")

	opts.Filter = ""
	if got := ApplyView(sampleEntries(), opts); len(got) != 5 {
		t.Errorf("clearing the filter must restore all entries, got %d", len(got))
	}
}

func TestApplyView_DoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	ApplyView(entries, DefaultViewOptions())
	if entries[0].Name != "zebra.txt" {
		t.Error("input slice was reordered")
	}
}
