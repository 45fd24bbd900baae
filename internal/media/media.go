package media

// Images holds the attachment references behind a media header. Full is
// used from the sm breakpoint up, Small on xs screens.
type Images struct {
	Full  string `json:"header_image,omitempty"`
	Small string `json:"header_image_xs,omitempty"`
}

// IsZero reports whether no image is set. A header needs Full to show images.
func (i Images) IsZero() bool {
	return i.Full == ""
}

// Videos holds header video sources. MP4 is required for playback across
// browsers; WebM is optional.
type Videos struct {
	MP4  string `json:"mp4,omitempty"`
	WebM string `json:"webm,omitempty"`
}

func (v Videos) IsZero() bool {
	return v.MP4 == ""
}

// Breakpoints in rendering order.
var Breakpoints = []string{"xs", "sm", "md", "lg", "xl"}

const (
	// HeightFullscreen is the header height that swaps to background sizes.
	HeightFullscreen = "header-media-fullscreen"

	SizeHeaderImage = "header-img"
	SizeBackground  = "bg-img"
)
