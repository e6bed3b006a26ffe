package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		filename string
		want     SourceKind
	}{
		{"report.pdf", KindPDF},
		{"Report.PDF", KindPDF},
		{"letter.docx", KindDocx},
		{"notes.txt", KindPlainText},
		{"readme.md", KindPlainText},
		{"photo.jpg", KindImage},
		{"photo.jpeg", KindImage},
		{"scan.tiff", KindImage},
		{"song.mp3", KindAudioVideo},
		{"clip.mp4", KindAudioVideo},
		{"voice.m4a", KindAudioVideo},
		{"archive.zip", KindUnsupported},
		{"binary.exe", KindUnsupported},
		{"noextension", KindUnsupported},
		{"", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFile(tt.filename))
		})
	}
}

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		url  string
		want SourceKind
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", KindYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", KindYouTube},
		{"http://youtube.com/embed/dQw4w9WgXcQ", KindYouTube},
		{"https://twitter.com/user/status/123456", KindTwitter},
		{"https://x.com/user/status/123456", KindTwitter},
		{"https://www.instagram.com/p/Cabc123/", KindInstagram},
		{"https://instagram.com/reel/Cabc123/", KindInstagram},
		{"https://example.com/article", KindWeb},
		{"https://blog.example.org/posts/42", KindWeb},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyURL(tt.url))
		})
	}
}

// Every string must classify to exactly one kind; garbage falls back to
// the generic web handler rather than failing.
func TestClassifyURLIsTotal(t *testing.T) {
	assert.Equal(t, KindWeb, ClassifyURL(""))
	assert.Equal(t, KindWeb, ClassifyURL("not a url at all"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "txt", FileExtension("notes.txt"))
	assert.Equal(t, "pdf", FileExtension("Report.PDF"))
	assert.Equal(t, "gz", FileExtension("dump.tar.gz"))
	assert.Equal(t, "", FileExtension("noextension"))
}

func TestSourceKindString(t *testing.T) {
	assert.Equal(t, "youtube", KindYouTube.String())
	assert.Equal(t, "unsupported", KindUnsupported.String())
	assert.Equal(t, "unsupported", SourceKind(999).String())
}
