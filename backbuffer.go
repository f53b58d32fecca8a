package forge

type backbufferKind int

const (
	backbufferImages backbufferKind = iota
	backbufferFramebuffers
)

// Backbuffer is the tagged result of swapchain creation. Backends that expose
// the chain's raw images return the images variant and forge derives one view
// and one framebuffer per image; backends that hand back ready-made
// framebuffers return the framebuffers variant and forge adopts them with no
// views. Exactly one variant is populated.
type Backbuffer struct {
	kind         backbufferKind
	images       []Image
	framebuffers []Framebuffer
}

// BackbufferImages returns the raw-images variant.
func BackbufferImages(images []Image) Backbuffer {
	return Backbuffer{kind: backbufferImages, images: images}
}

// BackbufferFramebuffers returns the prebuilt-framebuffers variant.
func BackbufferFramebuffers(framebuffers []Framebuffer) Backbuffer {
	return Backbuffer{kind: backbufferFramebuffers, framebuffers: framebuffers}
}

// Images reports the raw images when this is the images variant.
func (b Backbuffer) Images() ([]Image, bool) {
	return b.images, b.kind == backbufferImages
}

// Framebuffers reports the prebuilt framebuffers when this is the
// framebuffers variant.
func (b Backbuffer) Framebuffers() ([]Framebuffer, bool) {
	return b.framebuffers, b.kind == backbufferFramebuffers
}
