package modstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mmm/internal/domain"
)

// JarDir returns the folder holding a profile's unmanaged jar files
func (s *Store) JarDir(profileName string) string {
	return filepath.Join(s.root, profileName, "jar")
}

// JarPath returns the on-disk location of an unmanaged jar
func (s *Store) JarPath(profileName, jarName string) string {
	return filepath.Join(s.JarDir(profileName), jarName)
}

// ListJars returns a profile's raw jar filenames, sorted
func (s *Store) ListJars(profileName string) ([]string, error) {
	entries, err := os.ReadDir(s.JarDir(profileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading jar dir: %w", err)
	}

	var jars []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		jars = append(jars, entry.Name())
	}
	sort.Strings(jars)
	return jars, nil
}

// AddJar copies a mod file into the profile's raw jar folder and returns
// the final name. On a name collision the policy decides: overwrite wins,
// rename picks the first free suffixed name, cancel fails with
// ErrNameCollision so the caller can present the choice again.
func (s *Store) AddJar(profileName, srcPath string, policy domain.CollisionPolicy) (string, error) {
	if err := domain.ValidateName(profileName); err != nil {
		return "", err
	}
	name := filepath.Base(srcPath)
	if err := domain.ValidateName(name); err != nil {
		return "", err
	}

	jarDir := s.JarDir(profileName)
	if err := os.MkdirAll(jarDir, 0755); err != nil {
		return "", fmt.Errorf("creating jar dir: %w", err)
	}
	if _, err := os.Stat(filepath.Join(jarDir, name)); err == nil {
		switch policy {
		case domain.CollisionOverwrite:
			// fall through, copy replaces the file
		case domain.CollisionRename:
			name = freeJarName(jarDir, name)
		default:
			return "", fmt.Errorf("%w: %s", domain.ErrNameCollision, name)
		}
	}

	if err := copyFile(srcPath, filepath.Join(jarDir, name)); err != nil {
		return "", err
	}

	s.log.Infow("added raw jar", "profile", profileName, "file", name)
	return name, nil
}

// RenameJar renames an unmanaged jar within its profile
func (s *Store) RenameJar(profileName, oldName, newName string) error {
	if err := domain.ValidateName(profileName); err != nil {
		return err
	}
	if err := domain.ValidateName(oldName); err != nil {
		return err
	}
	if err := domain.ValidateName(newName); err != nil {
		return err
	}
	jarDir := s.JarDir(profileName)

	if _, err := os.Stat(filepath.Join(jarDir, oldName)); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrModNotFound, oldName)
	}
	if _, err := os.Stat(filepath.Join(jarDir, newName)); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrNameCollision, newName)
	}

	if err := os.Rename(filepath.Join(jarDir, oldName), filepath.Join(jarDir, newName)); err != nil {
		return fmt.Errorf("renaming jar: %w", err)
	}
	return nil
}

// RemoveJar deletes an unmanaged jar. Absent files are only logged.
func (s *Store) RemoveJar(profileName, name string) error {
	if err := domain.ValidateName(profileName); err != nil {
		return err
	}
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	path := s.JarPath(profileName, name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Warnw("jar not found, nothing to remove", "profile", profileName, "file", name)
			return nil
		}
		return fmt.Errorf("removing jar: %w", err)
	}
	return nil
}

// freeJarName inserts _1, _2, ... before the extension until the name is
// free within dir.
func freeJarName(dir, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	return nil
}
