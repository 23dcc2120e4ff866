package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// ActorTag marks controllable characters that can pick things up.
type ActorTag struct{}

var ActorTagComponent = NewComponent[ActorTag]()

// SceneRootTag marks the entity that should become the world's scene root
// when a scene is built.
type SceneRootTag struct{}

var SceneRootTagComponent = NewComponent[SceneRootTag]()
