package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/sortify/internal/models"
	mocks "github.com/desertthunder/sortify/internal/testing"
)

func sampleExport() *models.PlaylistExport {
	return &models.PlaylistExport{
		Playlist: models.Playlist{
			ID:          "pl1",
			Name:        "SORTED: Mix",
			Description: "by release date",
			TrackCount:  2,
		},
		Tracks: []models.Track{
			{ID: "t1", Title: "Old Song", Artist: "Artist One", Album: "Debut", ReleaseDate: "1997"},
			{ID: "t2", Title: "New Song", Artist: "Artist Two", ReleaseDate: "2020-05-01"},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}

	header := strings.Join(records[0], ",")
	if !strings.Contains(header, "Release Date") {
		t.Errorf("expected Release Date column, got %s", header)
	}

	if records[1][2] != "Old Song" || records[1][5] != "1997" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][5] != "2020-05-01" {
		t.Errorf("unexpected second row: %v", records[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "# SORTED: Mix") {
		t.Error("expected playlist name as heading")
	}
	if !strings.Contains(out, "**Visibility**: Private") {
		t.Error("expected visibility line")
	}
	if !strings.Contains(out, "1. Artist One - Old Song (Debut) [1997]") {
		t.Errorf("unexpected track line, got:\n%s", out)
	}
	if !strings.Contains(out, "2. Artist Two - New Song [2020-05-01]") {
		t.Errorf("expected album omitted when empty, got:\n%s", out)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Playlist: SORTED: Mix") {
		t.Error("expected playlist name")
	}
	if !strings.Contains(out, "1. [1997] Artist One - Old Song") {
		t.Errorf("unexpected track line, got:\n%s", out)
	}

	empty := sampleExport()
	empty.Tracks[0].ReleaseDate = ""
	data, _ = ExportToText(empty)
	if !strings.Contains(string(data), "[unknown]") {
		t.Error("expected unknown marker for missing release date")
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "mix")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mocks.AssertFileExists(t, result.TracksFile)
		mocks.AssertFileExists(t, result.MetadataFile)

		metadata := mocks.MustReadFile(t, result.MetadataFile)
		if !strings.Contains(metadata, "SORTED: Mix") {
			t.Error("expected playlist name in metadata JSON")
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mix.md")

		file, err := WriteMarkdownExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		mocks.AssertFileExists(t, file)
	})

	t.Run("Text", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mix.txt")

		file, err := WriteTextExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := mocks.MustReadFile(t, file)
		if !strings.Contains(content, "Old Song") {
			t.Error("expected track in text export")
		}
	})

	t.Run("Default Filenames", func(t *testing.T) {
		dir := t.TempDir()
		wd := mocks.MustGetwd(t)
		mocks.MustChdir(t, dir)
		defer mocks.MustChdir(t, wd)

		file, err := WriteTextExport(sampleExport(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if file != "pl1_tracks.txt" {
			t.Errorf("expected default filename from playlist ID, got %s", file)
		}
	})
}
