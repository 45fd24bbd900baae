package header

import "github.com/goliatone/go-masthead/internal/media"

const (
	H1Title    = "title"
	H1Subtitle = "subtitle"

	// TypeMedia is the header type of headers with an image or video.
	TypeMedia = "media"

	ContentTypeTitleSubtitle = "title_subtitle"
	ContentTypeCustom        = "custom"

	// DefaultHeight applies when page_header_height is unset.
	DefaultHeight = "header-media-default"
)

// HeaderSpec is the resolved description of a page header.
type HeaderSpec struct {
	TitleText    string        `json:"title"`
	SubtitleText string        `json:"subtitle"`
	Images       *media.Images `json:"images,omitempty"`
	Videos       *media.Videos `json:"videos,omitempty"`
	ContentType  string        `json:"content_type"`
	H1Target     string        `json:"h1"`
	HeaderType   string        `json:"header_type"`
	Height       string        `json:"height,omitempty"`
}

// HasMedia reports whether the header shows an image or video.
func (s *HeaderSpec) HasMedia() bool {
	return s != nil && (s.Images != nil || s.Videos != nil)
}
