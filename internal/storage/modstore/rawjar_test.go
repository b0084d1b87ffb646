package modstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmm/internal/domain"
)

func writeJar(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("jar "+name), 0644))
	return path
}

func TestStore_AddJar(t *testing.T) {
	store, _, dir := newStore(t)

	name, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)
	assert.Equal(t, "custom.jar", name)

	content, err := os.ReadFile(filepath.Join(dir, "profiles", "Survival", "jar", "custom.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar custom.jar", string(content))
}

func TestStore_AddJar_CollisionCancel(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	_, err = store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	assert.ErrorIs(t, err, domain.ErrNameCollision)
}

func TestStore_AddJar_CollisionRename(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	name, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionRename)
	require.NoError(t, err)
	assert.Equal(t, "custom_1.jar", name)

	name, err = store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionRename)
	require.NoError(t, err)
	assert.Equal(t, "custom_2.jar", name)
}

func TestStore_AddJar_CollisionOverwrite(t *testing.T) {
	store, _, dir := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "custom.jar")
	require.NoError(t, os.WriteFile(other, []byte("replacement"), 0644))

	name, err := store.AddJar("Survival", other, domain.CollisionOverwrite)
	require.NoError(t, err)
	assert.Equal(t, "custom.jar", name)

	content, err := os.ReadFile(filepath.Join(dir, "profiles", "Survival", "jar", "custom.jar"))
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(content))
}

func TestStore_RenameJar(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	require.NoError(t, store.RenameJar("Survival", "custom.jar", "renamed.jar"))

	jars, err := store.ListJars("Survival")
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed.jar"}, jars)

	assert.ErrorIs(t, store.RenameJar("Survival", "missing.jar", "x.jar"), domain.ErrModNotFound)
}

func TestStore_RenameJar_TargetTaken(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "a.jar"), domain.CollisionCancel)
	require.NoError(t, err)
	_, err = store.AddJar("Survival", writeJar(t, "b.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	assert.ErrorIs(t, store.RenameJar("Survival", "a.jar", "b.jar"), domain.ErrNameCollision)
}

func TestStore_Jar_RejectsUnsafeNames(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	_, err = store.AddJar("../Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	assert.ErrorIs(t, store.RenameJar("Survival", "custom.jar", "../escape.jar"), domain.ErrInvalidName)
	assert.ErrorIs(t, store.RenameJar("Survival", "..", "x.jar"), domain.ErrInvalidName)
	assert.ErrorIs(t, store.RemoveJar("Survival", "../custom.jar"), domain.ErrInvalidName)
	assert.ErrorIs(t, store.RemoveJar("..", "custom.jar"), domain.ErrInvalidName)

	// The jar itself survived all of it
	jars, err := store.ListJars("Survival")
	require.NoError(t, err)
	assert.Equal(t, []string{"custom.jar"}, jars)
}

func TestStore_RemoveJar(t *testing.T) {
	store, _, _ := newStore(t)

	_, err := store.AddJar("Survival", writeJar(t, "custom.jar"), domain.CollisionCancel)
	require.NoError(t, err)

	require.NoError(t, store.RemoveJar("Survival", "custom.jar"))

	jars, err := store.ListJars("Survival")
	require.NoError(t, err)
	assert.Empty(t, jars)

	// Absent jar is a logged no-op
	assert.NoError(t, store.RemoveJar("Survival", "custom.jar"))
}
