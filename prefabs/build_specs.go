package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a named entity, its components keyed by
// registry name, and nested child entities.
type EntityBuildSpec struct {
	Name       string            `yaml:"name"`
	Components map[string]any    `yaml:"components"`
	Children   []EntityBuildSpec `yaml:"children"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image              string    `yaml:"image"`
	Width              float64   `yaml:"width"`
	Height             float64   `yaml:"height"`
	Color              YAMLColor `yaml:"color"`
	OriginX            float64   `yaml:"origin_x"`
	OriginY            float64   `yaml:"origin_y"`
	CenterOriginIfZero bool      `yaml:"center_origin_if_zero"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type PhysicsBodyComponentSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Layer   uint32  `yaml:"layer"`
}

type TriggerVolumeComponentSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	// Monitoring and Monitorable default to true when omitted.
	Monitoring  *bool  `yaml:"monitoring"`
	Monitorable *bool  `yaml:"monitorable"`
	Layer       uint32 `yaml:"layer"`
	Mask        uint32 `yaml:"mask"`
}

type PickupComponentSpec struct {
	TriggerPath string `yaml:"trigger_path"`
	// DisableTriggerOnPickup defaults to true when omitted.
	DisableTriggerOnPickup *bool   `yaml:"disable_trigger_on_pickup"`
	SocketBone             string  `yaml:"socket_bone"`
	SocketPath             string  `yaml:"socket_path"`
	OffsetX                float64 `yaml:"offset_x"`
	OffsetY                float64 `yaml:"offset_y"`
	DropOffsetX            float64 `yaml:"drop_offset_x"`
	DropOffsetY            float64 `yaml:"drop_offset_y"`
	Variant                string  `yaml:"variant"`
	Script                 string  `yaml:"script"`
}

type HighlightComponentSpec struct {
	Color YAMLColor `yaml:"color"`
}
