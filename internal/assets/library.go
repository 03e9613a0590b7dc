package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"delivery/internal/logging"
)

// Folder is one of the well known library sub folders.
type Folder string

const (
	VisualReferences Folder = "01_VISUAL_REFERENCES"
	VoiceGuides      Folder = "02_VOICE_GUIDES"
	MetadataMaster   Folder = "03_METADATA_MASTER"
)

// Folders lists the known folders in library order.
var Folders = []Folder{VisualReferences, VoiceGuides, MetadataMaster}

// PersonasFile is the persona definition file inside VoiceGuides.
const PersonasFile = "Council_Personas.json"

// Library resolves the known folders under a root directory.
type Library struct {
	root    string
	folders map[Folder]string
	logger  *slog.Logger
}

// Open scans root for the known folders. A directory matches a folder key when
// its name contains the key, ignoring case. A missing root yields a library
// where every lookup is absent.
func Open(root string, logger *slog.Logger) *Library {
	lib := &Library{
		root:    root,
		folders: make(map[Folder]string, len(Folders)),
		logger:  logging.NewComponentLogger(logger, "assets"),
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		logging.WarnWithContext(lib.logger, "asset root unavailable", "assets_root_missing",
			logging.String("root", root),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set paths.assets_root to the publishing assets folder"),
			logging.String(logging.FieldImpact, "catalog bans, personas, and references fall back to defaults"),
		)
		return lib
	}
	for _, folder := range Folders {
		key := strings.ToLower(string(folder))
		for _, entry := range entries {
			if entry.IsDir() && strings.Contains(strings.ToLower(entry.Name()), key) {
				lib.folders[folder] = filepath.Join(root, entry.Name())
				break
			}
		}
		if _, ok := lib.folders[folder]; !ok {
			lib.logger.Debug("asset folder not found", logging.String("folder", string(folder)), logging.String("root", root))
		}
	}
	return lib
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// Folder returns the resolved path of a known folder.
func (l *Library) Folder(folder Folder) (string, bool) {
	path, ok := l.folders[folder]
	return path, ok
}

// BannedKeywords returns the raw text of the catalog ban list. The catalog
// specific file "<catalog>_<fileName>" wins over the shared fileName. ok is
// false when neither exists.
func (l *Library) BannedKeywords(catalog, fileName string) (text string, ok bool) {
	dir, found := l.Folder(VoiceGuides)
	if !found {
		return "", false
	}
	candidates := []string{fileName}
	if catalog = strings.TrimSpace(catalog); catalog != "" {
		candidates = append([]string{catalog + "_" + fileName}, candidates...)
	}
	for _, name := range candidates {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			l.logger.Debug("loaded banned keywords", logging.String("file", name), logging.String(logging.FieldCatalog, catalog))
			return string(data), true
		}
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(l.logger, "banned keywords unreadable", "banned_keywords_unreadable",
				logging.String("file", name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "only global bans apply"),
			)
			return "", false
		}
	}
	return "", false
}

// ReferenceImages returns the sorted names of non-hidden files in the
// catalog's reference folder. The folder name matches catalog exactly or,
// failing that, ignoring case.
func (l *Library) ReferenceImages(catalog string) []string {
	dir, ok := l.Folder(VisualReferences)
	if !ok {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	catalogDir := ""
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == catalog {
			catalogDir = entry.Name()
			break
		}
		if entry.IsDir() && catalogDir == "" && strings.EqualFold(entry.Name(), catalog) {
			catalogDir = entry.Name()
		}
	}
	if catalogDir == "" {
		return nil
	}
	files, err := os.ReadDir(filepath.Join(dir, catalogDir))
	if err != nil {
		return nil
	}
	var names []string
	for _, file := range files {
		if file.Type().IsRegular() && !strings.HasPrefix(file.Name(), ".") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Personas reads the persona definitions. ok is false when the file is
// missing or is not a JSON object of strings.
func (l *Library) Personas() (map[string]string, bool) {
	dir, found := l.Folder(VoiceGuides)
	if !found {
		return nil, false
	}
	path := filepath.Join(dir, PersonasFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(l.logger, "personas unreadable", "personas_unreadable",
				logging.String("path", path), logging.Error(err),
				logging.String(logging.FieldImpact, "default personas used"))
		}
		return nil, false
	}
	var personas map[string]string
	if err := json.Unmarshal(data, &personas); err != nil {
		logging.WarnWithContext(l.logger, "personas malformed", "personas_malformed",
			logging.String("path", path),
			logging.Error(fmt.Errorf("decode %s: %w", PersonasFile, err)),
			logging.String(logging.FieldErrorHint, "fix the JSON object of persona name to voice"),
			logging.String(logging.FieldImpact, "default personas used"))
		return nil, false
	}
	return personas, true
}
