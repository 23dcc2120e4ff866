package component

// Name identifies an entity among its siblings for path lookups.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
