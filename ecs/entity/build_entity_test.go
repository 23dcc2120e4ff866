package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
	"github.com/milk9111/carry/ecs/system"
	"github.com/milk9111/carry/prefabs"
)

func decodePrefab(t *testing.T, src string) prefabs.EntityBuildSpec {
	t.Helper()
	var spec prefabs.EntityBuildSpec
	require.NoError(t, yaml.Unmarshal([]byte(src), &spec))
	return spec
}

func TestBuildPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	player, err := NewPlayerAt(w, 64, 32)
	require.NoError(t, err)

	assert.Equal(t, "Player", w.NameOf(player))
	assert.True(t, ecs.Has(w, player, component.ActorTagComponent.Kind()))
	assert.True(t, ecs.Has(w, player, component.PlayerTagComponent.Kind()))
	assert.True(t, ecs.Has(w, player, component.InputComponent.Kind()))
	x, y := w.WorldPosition(player)
	assert.Equal(t, 64.0, x)
	assert.Equal(t, 32.0, y)

	hand, ok := w.FindPath(player, "Skeleton/Torso/HandR")
	require.True(t, ok)
	assert.True(t, ecs.Has(w, hand, component.BoneComponent.Kind()))
	skeleton, _ := w.FindChild(player, "Skeleton")
	assert.True(t, ecs.Has(w, skeleton, component.SkeletonComponent.Kind()))
}

func TestBuildPickupPrefabs(t *testing.T) {
	tests := []struct {
		prefab  string
		variant string
		trigger string
		image   string
	}{
		{prefab: "crate.yaml", variant: "", trigger: "Trigger", image: "crate.png"},
		{prefab: "torch.yaml", variant: component.PickupVariantHighlight, trigger: "Trigger", image: "torch.png"},
		{prefab: "lantern.yaml", variant: component.PickupVariantScript, trigger: "Reach/Area"},
	}

	for _, tt := range tests {
		t.Run(tt.prefab, func(t *testing.T) {
			w := ecs.NewWorld()
			item, err := NewPickupAt(w, tt.prefab, 10, 20)
			require.NoError(t, err)

			p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, tt.variant, p.Variant)
			assert.True(t, p.DisableTriggerOnPickup)

			sprite, ok := ecs.Get(w, item, component.SpriteComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, tt.image, sprite.ImagePath)
			assert.Nil(t, sprite.Image)

			trigger, ok := w.FindPath(item, tt.trigger)
			require.True(t, ok)
			tv, ok := ecs.Get(w, trigger, component.TriggerVolumeComponent.Kind())
			require.True(t, ok)
			assert.True(t, tv.Monitoring)
			assert.Equal(t, uint32(1), tv.Mask)
		})
	}
}

func TestBuildEntityPickupDecodesAuthoringKeys(t *testing.T) {
	spec := decodePrefab(t, `
name: Sword
components:
  transform: {x: 1, y: 2}
  pickup:
    trigger_path: Grip/Zone
    disable_trigger_on_pickup: false
    socket_bone: HandR
    socket_path: Back
    offset_x: 3
    offset_y: -10
    drop_offset_x: 5
    drop_offset_y: 1
children:
  - name: Grip
    children:
      - name: Zone
        components:
          trigger_volume:
            width: 10
            height: 12
            monitorable: false
            layer: 4
            mask: 3
`)
	w := ecs.NewWorld()
	item, err := BuildEntityFromSpec(w, spec, "sword.yaml")
	require.NoError(t, err)

	p, _ := ecs.Get(w, item, component.PickupComponent.Kind())
	assert.Equal(t, component.Pickup{
		TriggerPath: "Grip/Zone",
		SocketBone:  "HandR",
		SocketPath:  "Back",
		OffsetX:     3,
		OffsetY:     -10,
		DropOffsetX: 5,
		DropOffsetY: 1,
	}, *p)

	zone, ok := w.FindPath(item, "Grip/Zone")
	require.True(t, ok)
	tv, _ := ecs.Get(w, zone, component.TriggerVolumeComponent.Kind())
	assert.Equal(t, component.TriggerConfig{Monitoring: true, Monitorable: false, Layer: 4, Mask: 3}, tv.Config())
}

func TestBuildEntityRejectsPickupWithoutTrigger(t *testing.T) {
	spec := decodePrefab(t, `
name: Broken
components:
  transform: {}
  pickup:
    offset_y: -10
children:
  - name: NotTheTrigger
    components:
      transform: {}
`)
	w := ecs.NewWorld()
	_, err := BuildEntityFromSpec(w, spec, "broken.yaml")
	require.ErrorIs(t, err, system.ErrMissingTrigger)
	assert.Empty(t, w.Entities(), "failed builds leave nothing behind")
}

func TestBuildEntityRejectsBadComponents(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown component", src: "name: X\ncomponents:\n  jetpack: {}\n"},
		{name: "bad sprite", src: "name: X\ncomponents:\n  sprite: {width: 0, height: 4}\n"},
		{name: "unknown variant", src: "name: X\ncomponents:\n  pickup: {variant: sword}\nchildren:\n  - name: Trigger\n    components:\n      trigger_volume: {mask: 1}\n"},
		{name: "script variant without script", src: "name: X\ncomponents:\n  pickup: {variant: script}\n"},
		{name: "bad color", src: "name: X\ncomponents:\n  sprite: {width: 4, height: 4, color: \"#12\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			spec := decodePrefab(t, tt.src)
			_, err := BuildEntityFromSpec(w, spec, "bad.yaml")
			require.Error(t, err)
			assert.Empty(t, w.Entities())
		})
	}
}

func TestBuildEntityMissingPrefab(t *testing.T) {
	_, err := BuildEntity(ecs.NewWorld(), "nope.yaml")
	assert.Error(t, err)
}
