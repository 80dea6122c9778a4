package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawContentURL(t *testing.T) {
	assert.Equal(t,
		"https://raw.githubusercontent.com/abdullah-khaled0/Vocaby/main/assets/demo.png",
		RawContentURL("abdullah-khaled0", "Vocaby", "assets/demo.png"))

	assert.Equal(t,
		"https://raw.githubusercontent.com/abdullah-khaled0/Vocaby/main/assets/demo.png",
		RawContentURL("abdullah-khaled0", "Vocaby", "./assets/demo.png"))

	assert.Equal(t,
		"https://raw.githubusercontent.com/abdullah-khaled0/Vocaby/main/demo.gif",
		RawContentURL("abdullah-khaled0", "Vocaby", "/demo.gif"))
}
