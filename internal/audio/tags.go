package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// DescribeTrack returns "Artist - Title" from the file's ID3v2 tag, or the
// base file name when the file is not an MP3 or carries no usable tag.
func DescribeTrack(path string) string {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return name
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return name
	}
	defer tag.Close()

	artist := strings.TrimSpace(tag.Artist())
	title := strings.TrimSpace(tag.Title())
	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	default:
		return name
	}
}
