package policies

import (
	"milhouse/internal/domain/media"
)

// ImageInspector checks an upload against the accepted image formats and limits.
// The returned upload replaces the input since the content may have been
// partially consumed.
type ImageInspector interface {
	Inspect(upload media.Upload) (media.Upload, error)
}
