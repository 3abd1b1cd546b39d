package holo

// Scene is the root of the render graph: at most one camera and an ordered
// list of volumes. Volumes render in insertion order.
type Scene struct {
	camera  *Camera
	volumes []*Volume
}

// NewScene returns an empty scene with no camera.
func NewScene() *Scene {
	return &Scene{}
}

// SetCamera installs the scene's camera. A nil camera makes Render a no-op.
func (s *Scene) SetCamera(c *Camera) { s.camera = c }

// Camera returns the scene's camera, or nil.
func (s *Scene) Camera() *Camera { return s.camera }

// AddVolume appends v to the scene's draw order. Adding a volume that is
// already in the scene is a no-op.
func (s *Scene) AddVolume(v *Volume) {
	if v == nil {
		panic("holo: AddVolume called with nil volume")
	}
	for _, existing := range s.volumes {
		if existing == v {
			return
		}
	}
	s.volumes = append(s.volumes, v)
}

// RemoveVolume removes v from the scene. Removing a volume not in the scene
// is a no-op.
func (s *Scene) RemoveVolume(v *Volume) {
	for i, existing := range s.volumes {
		if existing == v {
			s.volumes = append(s.volumes[:i], s.volumes[i+1:]...)
			return
		}
	}
}

// Volumes returns the scene's volumes in draw order. The returned slice is
// the scene's own; callers must not mutate it.
func (s *Scene) Volumes() []*Volume { return s.volumes }

// Clear removes the camera and all volumes.
func (s *Scene) Clear() {
	s.camera = nil
	s.volumes = nil
}
