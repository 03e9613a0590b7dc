package assets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"delivery/internal/album"
	"delivery/internal/logging"
)

const (
	columnTitle       = "title"
	columnKeywords    = "keywords"
	columnDescription = "description"
)

var masterHeaderAliases = map[string]string{
	"title":             columnTitle,
	"track title":       columnTitle,
	"keywords":          columnKeywords,
	"description":       columnDescription,
	"track description": columnDescription,
}

// MasterFiles returns the CSV files in MetadataMaster whose names contain
// catalog, ignoring case. An empty catalog matches every CSV.
func (l *Library) MasterFiles(catalog string) []string {
	dir, ok := l.Folder(MetadataMaster)
	if !ok {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(catalog))
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// MasterTracks concatenates the tracks of every matching master CSV.
// Unreadable files are skipped and returned in skipped.
func (l *Library) MasterTracks(catalog string) (tracks []album.Track, skipped []string) {
	for _, path := range l.MasterFiles(catalog) {
		parsed, err := readMasterFile(path, len(tracks))
		if err != nil {
			logging.WarnWithContext(l.logger, "metadata master skipped", "metadata_master_skipped",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "tracks from this file are not imported"))
			skipped = append(skipped, path)
			continue
		}
		tracks = append(tracks, parsed...)
	}
	return tracks, skipped
}

func readMasterFile(path string, offset int) ([]album.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseMaster(file, offset)
}

// ParseMaster reads a master CSV with a header row. Recognized columns are
// Title, Keywords, and Description or Track Description, in any order and
// case. offset is the number of tracks that precede this file, used for
// default titles.
func ParseMaster(r io.Reader, offset int) ([]album.Track, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := masterHeaderAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	if len(columns) == 0 {
		return nil, errors.New("csv has no recognizable columns")
	}

	cell := func(record []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var tracks []album.Track
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}
		position := offset + len(tracks) + 1
		tracks = append(tracks, album.NewTrack(position,
			cell(record, columnTitle),
			cell(record, columnKeywords),
			cell(record, columnDescription),
		))
	}
	return tracks, nil
}
