package component

// Skeleton marks the root of an actor's rig. Bones are named descendants of
// the skeleton entity.
type Skeleton struct{}

var SkeletonComponent = NewComponent[Skeleton]()

// Bone marks a rig joint that items can be socketed onto.
type Bone struct{}

var BoneComponent = NewComponent[Bone]()
