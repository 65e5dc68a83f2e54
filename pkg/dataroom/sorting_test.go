package dataroom

import (
	"testing"
	"time"
)

func testFolder(name string, updated time.Time) Folder {
	return Folder{ID: "folder-" + name, Name: name, UpdatedAt: updated}
}

func testFile(name string, size int64, updated time.Time) FileMetadata {
	return FileMetadata{ID: "file-" + name, Name: name, Size: size, UpdatedAt: updated}
}

func mergedNames(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name()
	}
	return names
}

func assertOrder(t *testing.T, items []Item, want []string) {
	t.Helper()
	got := mergedNames(items)
	if len(got) != len(want) {
		t.Fatalf("got %d items %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestMergeContentsByName(t *testing.T) {
	now := time.Now()
	folders := []Folder{
		testFolder("Zebra", now),
		testFolder("Apple", now),
		testFolder("Mango", now),
	}
	files := []FileMetadata{
		testFile("document.pdf", 10, now),
		testFile("archive.zip", 20, now),
		testFile("image.jpg", 30, now),
	}

	items := MergeContents(folders, files, SortConfig{Field: SortByName, Order: SortAsc})

	// Folders and files interleave under a single case-insensitive order.
	assertOrder(t, items, []string{
		"Apple", "archive.zip", "document.pdf", "image.jpg", "Mango", "Zebra",
	})
}

func TestMergeContentsByNameDesc(t *testing.T) {
	now := time.Now()
	folders := []Folder{testFolder("Apple", now)}
	files := []FileMetadata{testFile("zoo.pdf", 1, now), testFile("mid.pdf", 1, now)}

	items := MergeContents(folders, files, SortConfig{Field: SortByName, Order: SortDesc})

	assertOrder(t, items, []string{"zoo.pdf", "mid.pdf", "Apple"})
}

func TestMergeContentsByModified(t *testing.T) {
	base := time.Now()
	folders := []Folder{testFolder("old-folder", base.Add(-2 * time.Hour))}
	files := []FileMetadata{
		testFile("newest.pdf", 1, base),
		testFile("oldest.pdf", 1, base.Add(-3*time.Hour)),
	}

	items := MergeContents(folders, files, SortConfig{Field: SortByModified, Order: SortAsc})
	assertOrder(t, items, []string{"oldest.pdf", "old-folder", "newest.pdf"})

	items = MergeContents(folders, files, SortConfig{Field: SortByModified, Order: SortDesc})
	assertOrder(t, items, []string{"newest.pdf", "old-folder", "oldest.pdf"})
}

func TestMergeContentsBySizeFoldersZero(t *testing.T) {
	now := time.Now()
	folders := []Folder{testFolder("big-folder", now)}
	files := []FileMetadata{
		testFile("large.pdf", 5000, now),
		testFile("small.pdf", 10, now),
	}

	// Folders sort as size zero regardless of their contents.
	items := MergeContents(folders, files, SortConfig{Field: SortBySize, Order: SortAsc})
	assertOrder(t, items, []string{"big-folder", "small.pdf", "large.pdf"})
}

func TestMergeContentsStableOnTies(t *testing.T) {
	now := time.Now()
	folders := []Folder{testFolder("b", now), testFolder("a", now)}
	files := []FileMetadata{testFile("x.pdf", 7, now), testFile("y.pdf", 7, now)}

	// All sizes tie (folders are zero too among themselves), so combined
	// input order is preserved within each key.
	items := MergeContents(folders, files, SortConfig{Field: SortBySize, Order: SortAsc})
	assertOrder(t, items, []string{"b", "a", "x.pdf", "y.pdf"})
}

func TestMergeContentsDoesNotMutateInputs(t *testing.T) {
	now := time.Now()
	folders := []Folder{testFolder("z", now), testFolder("a", now)}
	files := []FileMetadata{testFile("z.pdf", 1, now), testFile("a.pdf", 1, now)}

	MergeContents(folders, files, SortConfig{Field: SortByName, Order: SortAsc})

	if folders[0].Name != "z" || folders[1].Name != "a" {
		t.Errorf("folder input mutated: %v", folders)
	}
	if files[0].Name != "z.pdf" || files[1].Name != "a.pdf" {
		t.Errorf("file input mutated: %v", files)
	}
}

func TestMergeContentsEmpty(t *testing.T) {
	items := MergeContents(nil, nil, SortConfig{Field: SortByName, Order: SortAsc})
	if len(items) != 0 {
		t.Errorf("expected empty result, got %v", items)
	}
}
