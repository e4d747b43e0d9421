package resources

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static exposes the stylesheet and other assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
