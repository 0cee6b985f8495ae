package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, ".jpg", Extension("Foto.JPG"))
	assert.Equal(t, ".webp", Extension("dir/sub/casa.final.webp"))
	assert.Equal(t, "", Extension(".hidden"))
	assert.Equal(t, "", Extension("noext"))
	assert.Equal(t, "", Extension("trailing."))
	assert.Equal(t, ".png", Extension(`C:\uploads\plano.png`))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "a.png", SafeFilename("../../a.png"))
	assert.Equal(t, "evil.png", SafeFilename(`ev"il.png`))
	assert.Equal(t, "image", SafeFilename(""))
}
