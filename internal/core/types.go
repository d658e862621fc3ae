package core

import (
	"slices"

	"softbody/internal/physics"
)

// Scene defines the minimal contract a sandbox level must implement.
type Scene interface {
	Name() string
	// View is the world-space rectangle the scene is designed to be seen
	// through.
	View() physics.AABB
	Reset(seed int64)
	Advance(dt float64)
	World() *physics.World
}

// Focuser is implemented by scenes whose camera should track a particle.
type Focuser interface {
	Focus() (physics.Handle, bool)
}

// Factory constructs a Scene using an optional configuration map.
type Factory func(cfg map[string]string) Scene

var scenes = map[string]Factory{}

// Register adds a scene factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	scenes[name] = f
}

// Scenes exposes the registry of available scene factories.
func Scenes() map[string]Factory {
	return scenes
}

// SceneNames returns the registered names in sorted order.
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
