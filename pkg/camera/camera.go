// Package camera implements the pinhole camera the host supplies via
// SetCamera: a trusted orthonormal position/forward/up/right frame and a
// sensor distance, producing one jittered ray per pixel sample. The frame
// is caller-supplied rather than derived from look-at parameters, so no
// orthonormalization happens here.
package camera

import "github.com/Fogrexon/WebPathtracer/pkg/vmath"

// Camera is the pinhole camera frame. Forward, Up, and Right are assumed
// unit length and mutually orthogonal; the core does not validate this.
type Camera struct {
	Position vmath.Vec3
	Forward  vmath.Vec3
	Up       vmath.Vec3
	Right    vmath.Vec3
	Sensor   float64 // sensor distance along Forward
}

// New builds a Camera from the host's 13-float wire layout: position(3),
// forward(3), up(3), right(3), sensor distance(1).
func New(cam [13]float64) Camera {
	return Camera{
		Position: vmath.New(cam[0], cam[1], cam[2]),
		Forward:  vmath.New(cam[3], cam[4], cam[5]),
		Up:       vmath.New(cam[6], cam[7], cam[8]),
		Right:    vmath.New(cam[9], cam[10], cam[11]),
		Sensor:   cam[12],
	}
}

// Ray produces a primary ray for pixel (i, j) of a width-W, height-H image,
// jittered within the pixel by (xiU, xiV) in [0,1). The normalized sensor
// coordinates are u = (i + xi - W/2) / H, v = -(j + xi - H/2) / H, both
// scaled by the image height so u carries the aspect ratio.
func (c Camera) Ray(i, j, w, h int, xiU, xiV float64) vmath.Ray {
	u := (float64(i) + xiU - float64(w)/2) / float64(h)
	v := -(float64(j) + xiV - float64(h)/2) / float64(h)

	dir := c.Forward.Scale(c.Sensor).Add(c.Right.Scale(u)).Add(c.Up.Scale(v)).Normalize()
	return vmath.NewRay(c.Position, dir)
}
