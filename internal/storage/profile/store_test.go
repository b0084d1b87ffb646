package profile_test

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mmm/internal/domain"
	"mmm/internal/storage/profile"
)

func newStore(t *testing.T) (*profile.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return profile.New(dir, zap.NewNop().Sugar()), dir
}

func TestStore_Create(t *testing.T) {
	store, dir := newStore(t)

	p, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)
	assert.Equal(t, "Survival", p.Name)
	assert.Equal(t, "1.21", p.GameVersion)
	assert.Equal(t, domain.LoaderFabric, p.Loader)

	// Record lands on disk with the documented field names
	data, err := os.ReadFile(filepath.Join(dir, "profiles", "Survival", "properties.json"))
	require.NoError(t, err)

	var rec map[string]string
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "Survival", rec["name"])
	assert.Equal(t, "1.21", rec["version"])
	assert.Equal(t, "fabric", rec["modloader"])
}

func TestStore_Create_Duplicate(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	_, err = store.Create("Survival", "1.20.4", domain.LoaderForge)
	assert.ErrorIs(t, err, domain.ErrProfileExists)
}

func TestStore_List(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)
	_, err = store.Create("Creative", "1.20.4", domain.LoaderQuilt)
	require.NoError(t, err)

	profiles, err := store.List()
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, domain.LoaderQuilt, profiles["Creative"].Loader)
}

func TestStore_List_SkipsCorruptRecord(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Create("Good", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	badDir := filepath.Join(dir, "profiles", "Bad")
	require.NoError(t, os.MkdirAll(badDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "properties.json"), []byte("{broken"), 0644))

	profiles, err := store.List()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Contains(t, profiles, "Good")
}

func TestStore_List_Empty(t *testing.T) {
	store, _ := newStore(t)

	profiles, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestStore_Rename(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	require.NoError(t, store.Rename("Survival", "Hardcore"))

	p, err := store.Get("Hardcore")
	require.NoError(t, err)
	// Stored name must agree with the directory after the move
	assert.Equal(t, "Hardcore", p.Name)

	_, err = store.Get("Survival")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestStore_Rename_TargetTaken(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)
	_, err = store.Create("Hardcore", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Rename("Survival", "Hardcore"), domain.ErrProfileExists)
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Create("Good", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../..", "a/b", `a\b`} {
		_, err := store.Create(name, "1.21", domain.LoaderFabric)
		assert.ErrorIs(t, err, domain.ErrInvalidName, "Create(%q)", name)

		_, err = store.Get(name)
		assert.ErrorIs(t, err, domain.ErrInvalidName, "Get(%q)", name)

		assert.ErrorIs(t, store.Rename("Good", name), domain.ErrInvalidName, "Rename to %q", name)
		assert.ErrorIs(t, store.Remove(name), domain.ErrInvalidName, "Remove(%q)", name)
		assert.ErrorIs(t, store.Export(name, filepath.Join(t.TempDir(), "out.zip")), domain.ErrInvalidName, "Export(%q)", name)
	}

	// Remove("..") resolves to the data directory itself; nothing outside
	// the profiles tree may have been touched.
	assert.DirExists(t, filepath.Join(dir, "profiles", "Good"))
}

func TestStore_Import_RejectsUnsafeEmbeddedName(t *testing.T) {
	store, dir := newStore(t)

	archive := filepath.Join(t.TempDir(), "evil.zip")
	out, err := os.Create(archive)
	require.NoError(t, err)
	w := zip.NewWriter(out)
	entry, err := w.Create("properties.json")
	require.NoError(t, err)
	_, err = entry.Write([]byte(`{"name":"../evil","version":"1.21","modloader":"fabric"}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	_, err = store.Import(archive, domain.CollisionOverwrite)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, statErr := os.Stat(filepath.Join(dir, "evil"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_Remove(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	require.NoError(t, store.Remove("Survival"))
	assert.ErrorIs(t, store.Remove("Survival"), domain.ErrProfileNotFound)
}

func TestStore_ExportImport_RoundTrip(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	// Give the profile some content beyond the record
	jarDir := filepath.Join(dir, "profiles", "Survival", "jar")
	require.NoError(t, os.MkdirAll(jarDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(jarDir, "custom.jar"), []byte("jar bytes"), 0644))

	archive := filepath.Join(t.TempDir(), "Survival.zip")
	require.NoError(t, store.Export("Survival", archive))

	require.NoError(t, store.Remove("Survival"))

	p, err := store.Import(archive, domain.CollisionCancel)
	require.NoError(t, err)
	assert.Equal(t, "Survival", p.Name)
	assert.Equal(t, domain.LoaderFabric, p.Loader)

	content, err := os.ReadFile(filepath.Join(dir, "profiles", "Survival", "jar", "custom.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(content))
}

func TestStore_Import_CollisionCancel(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "Survival.zip")
	require.NoError(t, store.Export("Survival", archive))

	_, err = store.Import(archive, domain.CollisionCancel)
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestStore_Import_CollisionRename(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "Survival.zip")
	require.NoError(t, store.Export("Survival", archive))

	p, err := store.Import(archive, domain.CollisionRename)
	require.NoError(t, err)
	assert.Equal(t, "Survival_1", p.Name)

	// The imported record was rewritten to match its new directory
	got, err := store.Get("Survival_1")
	require.NoError(t, err)
	assert.Equal(t, "Survival_1", got.Name)

	// No two profiles share a name
	profiles, err := store.List()
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestStore_Import_CollisionOverwrite(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Create("Survival", "1.21", domain.LoaderFabric)
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "Survival.zip")
	require.NoError(t, store.Export("Survival", archive))

	// Mutate the live profile, then overwrite it from the archive
	marker := filepath.Join(dir, "profiles", "Survival", "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	_, err = store.Import(archive, domain.CollisionOverwrite)
	require.NoError(t, err)

	_, err = os.Stat(marker)
	assert.True(t, os.IsNotExist(err))
}
