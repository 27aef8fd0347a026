package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/limaJavier/courseplanner/pkg/apperrors"
	"github.com/limaJavier/courseplanner/pkg/term"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

const DefaultSnapshotPattern = "*.json"

type LoadOptions struct {
	// Pattern selects snapshot files relative to the snapshot directory (doublestar syntax).
	// Every matched file must be named after its term code, e.g. "1249.json".
	Pattern string
}

// Load reads every snapshot under dir. Malformed snapshots are logged and skipped; a missing
// directory or the absence of any usable snapshot is an error.
func Load(dir string, options LoadOptions, logger zerolog.Logger) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("snapshot path is not a directory: %v", dir)
	}

	pattern := options.Pattern
	if pattern == "" {
		pattern = DefaultSnapshotPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid snapshot pattern %q", pattern)
	}

	fsys := os.DirFS(dir)
	files, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("cannot list snapshots: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(files))
	for _, file := range files {
		snapshot, err := readSnapshot(fsys, file)
		if err != nil {
			logger.Warn().Err(err).Str("file", file).Str("kind", string(apperrors.KindMalformedSnapshot)).Msg("Skipping snapshot")
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no usable snapshot matched %q in %v", pattern, dir)
	}

	catalog := Build(snapshots)
	logger.Info().
		Int("snapshots", len(snapshots)).
		Int("terms", len(catalog.snapshots)).
		Int("courses", catalog.Len()).
		Msg("Course catalog loaded")
	return catalog, nil
}

func readSnapshot(fsys fs.FS, file string) (Snapshot, error) {
	stem := strings.TrimSuffix(path.Base(file), path.Ext(file))
	code, err := term.Parse(stem)
	if err != nil {
		return Snapshot{}, apperrors.New(apperrors.ErrMalformedSnapshot, "snapshot %v is not named after a term code", file)
	}

	bytes, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
	}

	courses, err := DecodeCourses(bytes)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Term: code, Courses: courses}, nil
}

// DecodeCourses parses a snapshot body: a JSON array of course objects
func DecodeCourses(bytes []byte) ([]Course, error) {
	var rawCourses []map[string]any
	if err := json.Unmarshal(bytes, &rawCourses); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
	}

	courses := make([]Course, 0, len(rawCourses))
	for i, rawCourse := range rawCourses {
		course := Course{CreditWeight: defaultCreditWeight}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true, // Upstream exports numbers as strings ("0.50", "1249")
			Result:           &course,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(rawCourse); err != nil {
			return nil, fmt.Errorf("%w: course %d: %v", apperrors.ErrMalformedSnapshot, i, err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}
