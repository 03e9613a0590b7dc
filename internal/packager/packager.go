// Package packager compiles validated album content into the six-section
// final delivery archive. Section names and file names are fixed and shared
// with downstream publishers.
package packager

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"delivery/internal/album"
)

// Fixed archive entry paths.
const (
	TrackKeywordsPath     = "01 Track Keywords/Track_Keywords.csv"
	TrackDescriptionsPath = "02 Track Descriptions/Track_Descriptions.csv"
	AlbumDescriptionPath  = "03 Album Description/Album_Description.txt"
	AlbumNamePath         = "04 Album Name/Album_Name.txt"
	CoverArtPath          = "05 Album Cover Art/MidJourney_Prompts.txt"
	MailChimpPath         = "06 MailChimp Intro/MailChimp_Copy.txt"
)

// SectionPaths lists the archive entries in package order.
var SectionPaths = []string{
	TrackKeywordsPath,
	TrackDescriptionsPath,
	AlbumDescriptionPath,
	AlbumNamePath,
	CoverArtPath,
	MailChimpPath,
}

// Section is one named artifact inside the archive.
type Section struct {
	Path string
	Data []byte
}

// Archive is the ordered, immutable set of six sections.
type Archive struct {
	sections []Section
}

// Compile projects content onto the six archive sections. Track tables keep
// track order; empty album fields produce empty documents.
func Compile(content album.Content) (Archive, error) {
	keywordRows := make([][]string, 0, len(content.Tracks))
	descriptionRows := make([][]string, 0, len(content.Tracks))
	for _, track := range content.Tracks {
		keywordRows = append(keywordRows, []string{track.Title, track.Keywords})
		descriptionRows = append(descriptionRows, []string{track.Title, track.Description})
	}

	keywordsCSV, err := encodeTable([]string{"Title", "Keywords"}, keywordRows)
	if err != nil {
		return Archive{}, fmt.Errorf("encode track keywords: %w", err)
	}
	descriptionsCSV, err := encodeTable([]string{"Title", "Track Description"}, descriptionRows)
	if err != nil {
		return Archive{}, fmt.Errorf("encode track descriptions: %w", err)
	}

	return Archive{sections: []Section{
		{Path: TrackKeywordsPath, Data: keywordsCSV},
		{Path: TrackDescriptionsPath, Data: descriptionsCSV},
		{Path: AlbumDescriptionPath, Data: []byte(content.AlbumDescription)},
		{Path: AlbumNamePath, Data: []byte(content.AlbumName)},
		{Path: CoverArtPath, Data: []byte(content.CoverArt)},
		{Path: MailChimpPath, Data: []byte(content.MailChimp)},
	}}, nil
}

func encodeTable(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Sections returns copies of the archive sections in package order.
func (a Archive) Sections() []Section {
	out := make([]Section, len(a.sections))
	for i, section := range a.sections {
		out[i] = Section{Path: section.Path, Data: append([]byte(nil), section.Data...)}
	}
	return out
}

// Section returns the data stored at path.
func (a Archive) Section(path string) ([]byte, bool) {
	for _, section := range a.sections {
		if section.Path == path {
			return append([]byte(nil), section.Data...), true
		}
	}
	return nil, false
}

// WriteZip writes the archive as a deflated ZIP. Every entry carries the
// modified timestamp so output is reproducible for a fixed time.
func (a Archive) WriteZip(w io.Writer, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, section := range a.sections {
		header := &zip.FileHeader{
			Name:     section.Path,
			Method:   zip.Deflate,
			Modified: modified,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create %s: %w", section.Path, err)
		}
		if _, err := entry.Write(section.Data); err != nil {
			return fmt.Errorf("write %s: %w", section.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// Bytes returns the ZIP encoding of the archive.
func (a Archive) Bytes(modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteZip(&buf, modified); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
