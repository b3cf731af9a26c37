package codex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInput_Text(t *testing.T) {
	prompt, images := normalizeInput(Text("hello"))
	assert.Equal(t, "hello", prompt)
	assert.Empty(t, images)
}

func TestNormalizeInput_PartsJoinedWithBlankLine(t *testing.T) {
	prompt, images := normalizeInput(Parts{
		TextPart{Text: "first"},
		TextPart{Text: "second"},
	})
	assert.Equal(t, "first\n\nsecond", prompt)
	assert.Empty(t, images)
}

func TestNormalizeInput_ImagesCollectedInOrder(t *testing.T) {
	prompt, images := normalizeInput(Parts{
		TextPart{Text: "describe these"},
		LocalImagePart{Path: "/tmp/a.png"},
		TextPart{Text: "and compare"},
		LocalImagePart{Path: "/tmp/b.png"},
	})
	assert.Equal(t, "describe these\n\nand compare", prompt)
	assert.Equal(t, []string{"/tmp/a.png", "/tmp/b.png"}, images)
}

func TestNormalizeInput_OnlyImages(t *testing.T) {
	prompt, images := normalizeInput(Parts{LocalImagePart{Path: "/tmp/a.png"}})
	assert.Equal(t, "", prompt)
	assert.Equal(t, []string{"/tmp/a.png"}, images)
}

func TestNormalizeInput_Nil(t *testing.T) {
	prompt, images := normalizeInput(nil)
	assert.Equal(t, "", prompt)
	assert.Empty(t, images)
}
