package asset

import (
	"os"

	"github.com/tomz197/spacerocks/internal/audio"
)

// NewLoader picks the asset source: a directory when dir is set, a media
// host when baseURL is set, and the builtin procedural pack otherwise.
func NewLoader(dir, baseURL string, out *audio.Output) (Loader, error) {
	switch {
	case dir != "":
		return NewFSLoader(os.DirFS(dir), out), nil
	case baseURL != "":
		return NewHTTPLoader(baseURL, nil, out)
	default:
		return NewBuiltinLoader(out), nil
	}
}
