package component

// Variant names for Pickup.Variant.
const (
	PickupVariantBase      = "base"
	PickupVariantHighlight = "highlight"
	PickupVariantScript    = "script"
)

// DefaultTriggerName is the child name searched for when TriggerPath is
// empty.
const DefaultTriggerName = "Trigger"

// Pickup is an item an actor can walk up to, take, carry and put down.
type Pickup struct {
	// TriggerPath optionally names the trigger entity relative to the item.
	TriggerPath            string
	DisableTriggerOnPickup bool
	// SocketBone is a bone name searched for under the actor's skeleton.
	SocketBone string
	// SocketPath is a path relative to the actor used when no bone matches.
	SocketPath  string
	OffsetX     float64
	OffsetY     float64
	DropOffsetX float64
	DropOffsetY float64
	Variant     string
	Script      string

	Initialized bool
	Trigger     EntityRef
	Saved       TriggerConfig

	Picked  bool
	Owner   EntityRef
	Focused EntityRef
	// Overlapping lists actors inside the trigger, most recent last.
	Overlapping []EntityRef
}

var PickupComponent = NewComponent[Pickup]()
