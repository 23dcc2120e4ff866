package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadEntityBuildSpecIncludesChildren(t *testing.T) {
	spec, err := LoadEntityBuildSpec("prefabs/lantern.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Lantern", spec.Name)
	require.Len(t, spec.Children, 1)
	assert.Equal(t, "Reach", spec.Children[0].Name)
	require.Len(t, spec.Children[0].Children, 1)
	assert.Contains(t, spec.Children[0].Children[0].Components, "trigger_volume")

	pickup, err := DecodeComponentSpec[PickupComponentSpec](spec.Components["pickup"])
	require.NoError(t, err)
	assert.Equal(t, "Reach/Area", pickup.TriggerPath)
	assert.Equal(t, "script", pickup.Variant)
	assert.Nil(t, pickup.DisableTriggerOnPickup)
}

func TestLoadSceneSpec(t *testing.T) {
	for _, name := range []string{"demo.yaml", "scenes/demo.yaml", "prefabs/scenes/demo.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadSceneSpec(name)
			require.NoError(t, err)
			assert.Equal(t, "Demo", spec.Name)
			require.NotEmpty(t, spec.Entities)
			assert.Equal(t, "player.yaml", spec.Entities[0].Prefab)
			require.NotNil(t, spec.Entities[0].Transform)
		})
	}
}

func TestLoadScriptPaths(t *testing.T) {
	for _, name := range []string{"lantern.tengo", "scripts/lantern.tengo", "prefabs/scripts/lantern.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), "on_picked")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{in: "#ff000080", want: color.NRGBA{R: 255, A: 128}},
		{in: "00ff00", want: color.NRGBA{G: 255, A: 255}},
		{in: "gold", want: color.RGBA{R: 0xff, G: 0xd7, A: 0xff}},
		{in: " Crimson ", want: color.RGBA{R: 0xdc, G: 0x14, B: 0x3c, A: 0xff}},
		{in: "#abc", wantErr: true},
		{in: "zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYAMLColorRejectsNonScalar(t *testing.T) {
	var out struct {
		Color YAMLColor `yaml:"color"`
	}
	err := yaml.Unmarshal([]byte("color: [1, 2]"), &out)
	assert.Error(t, err)
}

func TestWatcherReportsSpecAndScriptChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crate.yaml"), []byte("name: Crate\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "crate.yaml", filepath.Base(name))
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
