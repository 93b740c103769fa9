// Package assets bundles the static files served next to the chat API.
package assets

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

// AvatarPath is the fixed URL path of the chatbot avatar.
const AvatarPath = "/wave.png"

//go:embed wave.png
var avatar []byte

var startedAt = time.Now()

// Avatar returns the embedded PNG bytes.
func Avatar() []byte {
	return avatar
}

// AvatarHandler serves the avatar image with caching headers.
func AvatarHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, "wave.png", startedAt, bytes.NewReader(avatar))
}
