package profile

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mmm/internal/domain"
)

// Export serializes the named profile's whole directory tree into a zip
// archive at archivePath.
func (s *Store) Export(name, archivePath string) (err error) {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	dir := s.Dir(name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	w := zip.NewWriter(out)
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("finalizing archive: %w", cerr)
		}
	}()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("creating archive entry %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", rel, err)
		}
		defer f.Close()

		if _, err := io.Copy(entry, f); err != nil {
			return fmt.Errorf("writing archive entry %s: %w", rel, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("exporting profile: %w", err)
	}

	s.log.Infow("exported profile", "name", name, "archive", archivePath)
	return nil
}

// Import restores a profile from an archive produced by Export. The
// profile name is taken from the embedded property record. On a name
// collision the policy decides: overwrite replaces the existing profile,
// rename picks the first free "<name>_N" (and rewrites the embedded name
// so record and directory stay in agreement), cancel returns
// ErrCancelled.
func (s *Store) Import(archivePath string, policy domain.CollisionPolicy) (*domain.Profile, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	profile, err := readArchiveProperties(&r.Reader)
	if err != nil {
		return nil, err
	}

	// The embedded name comes from an untrusted archive.
	if err := domain.ValidateName(profile.Name); err != nil {
		return nil, err
	}

	name := profile.Name
	if _, statErr := os.Stat(s.Dir(name)); statErr == nil {
		switch policy {
		case domain.CollisionOverwrite:
			if err := os.RemoveAll(s.Dir(name)); err != nil {
				return nil, fmt.Errorf("replacing profile: %w", err)
			}
		case domain.CollisionRename:
			name = s.freeName(name)
		default:
			return nil, fmt.Errorf("%w: profile %s exists", domain.ErrCancelled, profile.Name)
		}
	}

	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating profile dir: %w", err)
	}

	for _, f := range r.File {
		if err := extractArchiveFile(f, dir); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
	}

	profile.Name = name
	if err := s.writeProperties(dir, profile); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	s.log.Infow("imported profile", "name", name, "archive", archivePath)
	return profile, nil
}

// freeName appends _1, _2, ... until no profile claims the name
func (s *Store) freeName(name string) string {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if _, err := os.Stat(s.Dir(candidate)); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

func readArchiveProperties(r *zip.Reader) (*domain.Profile, error) {
	for _, f := range r.File {
		if f.Name != propertiesFile {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive record: %w", err)
		}
		defer rc.Close()

		var rec propertiesRecord
		if err := json.NewDecoder(rc).Decode(&rec); err != nil {
			return nil, fmt.Errorf("parsing archive record: %w", err)
		}

		loader, err := domain.ParseLoader(rec.Modloader)
		if err != nil {
			return nil, fmt.Errorf("archive record: %w", err)
		}
		return &domain.Profile{Name: rec.Name, GameVersion: rec.Version, Loader: loader}, nil
	}
	return nil, fmt.Errorf("archive has no %s", propertiesFile)
}

func extractArchiveFile(f *zip.File, destDir string) (err error) {
	destPath, err := sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(out, rc); err != nil {
		return fmt.Errorf("writing file %s: %w", destPath, err)
	}
	return nil
}

// sanitizePath rejects archive entries that would escape the destination
// directory (zip slip).
func sanitizePath(destDir, filePath string) (string, error) {
	cleanPath := filepath.Clean(filepath.FromSlash(filePath))
	destPath := filepath.Join(destDir, cleanPath)

	if !strings.HasPrefix(filepath.Clean(destPath)+string(os.PathSeparator), filepath.Clean(destDir)+string(os.PathSeparator)) {
		if filepath.Clean(destPath) != filepath.Clean(destDir) {
			return "", fmt.Errorf("path traversal detected: %s", filePath)
		}
	}
	return destPath, nil
}
