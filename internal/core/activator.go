package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mmm/internal/storage/modstore"
)

// Activator reconciles the real game mods directory with a profile's
// declared mod set.
type Activator struct {
	mods    *modstore.Store
	modsDir string
	log     *zap.SugaredLogger
}

// NewActivator creates an activator targeting the given game mods
// directory.
func NewActivator(mods *modstore.Store, modsDir string, log *zap.SugaredLogger) *Activator {
	return &Activator{mods: mods, modsDir: modsDir, log: log}
}

// Activate makes the game mods directory's flat-file contents exactly the
// profile's record binaries plus its raw jars. Only flat files are
// managed; subdirectories (configs, shader packs) are left alone. A copy
// failing partway leaves a mixed state; there is no rollback.
func (a *Activator) Activate(profileName string) error {
	entries, err := a.mods.List(profileName)
	if err != nil {
		return fmt.Errorf("listing profile mods: %w", err)
	}

	if err := os.MkdirAll(a.modsDir, 0755); err != nil {
		return fmt.Errorf("creating mods dir: %w", err)
	}

	if err := clearFlatFiles(a.modsDir); err != nil {
		return fmt.Errorf("clearing mods dir: %w", err)
	}

	for _, entry := range entries {
		var src, name string
		if entry.Record != nil {
			src = a.mods.BinaryPath(profileName, entry.Record)
			name = entry.Record.FileName
		} else {
			src = a.mods.JarPath(profileName, entry.JarName)
			name = entry.JarName
		}

		if err := copyFile(src, filepath.Join(a.modsDir, name)); err != nil {
			return fmt.Errorf("activating %s: %w", name, err)
		}
	}

	a.log.Infow("activated profile", "profile", profileName, "mods", len(entries))
	return nil
}

// clearFlatFiles removes every regular file directly inside dir
func clearFlatFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// flatFiles lists the names of regular files directly inside dir
func flatFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
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
