package component

// EntityRef is a weak handle to an ecs.Entity. Components cannot import the
// ecs package, so they store the raw handle; systems convert it back and
// check liveness before use.
type EntityRef uint64

// Empty reports whether the reference is unset.
func (r EntityRef) Empty() bool {
	return r == 0
}
