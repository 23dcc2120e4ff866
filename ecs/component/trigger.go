package component

import "github.com/jakecoffman/cp"

// TriggerConfig is the authoring state of a trigger volume that a pickup
// saves before disabling it and restores on release.
type TriggerConfig struct {
	Monitoring  bool
	Monitorable bool
	Layer       uint32
	Mask        uint32
}

// TriggerVolume detects overlapping bodies without blocking them. A body is
// detected while Monitoring is set and the body's layer intersects Mask.
// Layer and Monitorable describe how other areas would see this one.
type TriggerVolume struct {
	Width       float64
	Height      float64
	OffsetX     float64
	OffsetY     float64
	Monitoring  bool
	Monitorable bool
	Layer       uint32
	Mask        uint32

	Body  *cp.Body
	Shape *cp.Shape
}

var TriggerVolumeComponent = NewComponent[TriggerVolume]()

// Config returns the current authoring state.
func (t *TriggerVolume) Config() TriggerConfig {
	return TriggerConfig{
		Monitoring:  t.Monitoring,
		Monitorable: t.Monitorable,
		Layer:       t.Layer,
		Mask:        t.Mask,
	}
}

// Apply overwrites the authoring state with cfg.
func (t *TriggerVolume) Apply(cfg TriggerConfig) {
	t.Monitoring = cfg.Monitoring
	t.Monitorable = cfg.Monitorable
	t.Layer = cfg.Layer
	t.Mask = cfg.Mask
}

// Disable stops the volume from detecting or being detected.
func (t *TriggerVolume) Disable() {
	t.Apply(TriggerConfig{})
}
