package backend

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/glxvnd/refcnt"
)

// Default surface dimensions for drawables created without an explicit
// size. Hosts resize afterwards via SoftwareVendor.ResizeDrawable.
const (
	defaultSurfaceWidth  = 640
	defaultSurfaceHeight = 480
)

// Surface is a CPU drawable: a double-buffered pair of RGBA images.
//
// Surfaces are shared between the vendor's drawable table and any contexts
// currently bound to them, so they carry a reference count. The table
// holds one reference from creation; each bound context holds another.
// Whoever drops the count to zero destroys the pixel storage.
type Surface struct {
	ref refcnt.Count

	width  int
	height int
	front  *image.RGBA
	back   *image.RGBA
}

// newSurface creates a surface with one reference, owned by the caller.
func newSurface(width, height int) *Surface {
	s := &Surface{
		width:  width,
		height: height,
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
		back:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	s.ref.Init(1)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Front returns the displayed buffer.
func (s *Surface) Front() *image.RGBA { return s.front }

// Back returns the buffer rendering draws into.
func (s *Surface) Back() *image.RGBA { return s.back }

// resize reallocates the front buffer at the new size. The back buffer
// keeps its size until the next swap, which scales across the mismatch
// and then brings the back buffer up to the new size.
func (s *Surface) resize(width, height int) {
	s.width = width
	s.height = height
	s.front = image.NewRGBA(image.Rect(0, 0, width, height))
}

// swap presents the back buffer. Matching sizes copy; mismatched sizes
// (a resize happened since the last swap) scale, then the back buffer is
// reallocated at the front's size.
func (s *Surface) swap() {
	fb := s.front.Bounds()
	bb := s.back.Bounds()
	if fb.Dx() == bb.Dx() && fb.Dy() == bb.Dy() {
		draw.Copy(s.front, image.Point{}, s.back, bb, draw.Src, nil)
		return
	}
	draw.ApproxBiLinear.Scale(s.front, fb, s.back, bb, draw.Src, nil)
	s.back = image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
}

// destroy releases the pixel storage. Called by whoever drops the last
// reference; see [Surface.unref].
func (s *Surface) destroy() {
	s.front = nil
	s.back = nil
}

// retain moves a surface reference from old to s, destroying old when the
// moved reference was its last. Either may be nil. This is the chained
// destruction contract: releasing a surface from a context's teardown path
// tears down its buffers one level at a time.
func retain(old, s *Surface) {
	var dst, src *refcnt.Count
	if old != nil {
		dst = &old.ref
	}
	if s != nil {
		src = &s.ref
	}
	if refcnt.Update(dst, src) {
		old.destroy()
	}
}
