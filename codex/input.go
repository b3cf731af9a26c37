package codex

import "strings"

// Input is the user input for one turn: either a plain prompt (Text) or an
// ordered mix of text fragments and local images (Parts).
type Input interface {
	isInput()
}

// Text is a plain string prompt.
type Text string

func (Text) isInput() {}

// Parts is an ordered list of structured input parts.
type Parts []UserInput

func (Parts) isInput() {}

// UserInput is one part of a structured input.
type UserInput interface {
	isUserInput()
}

// TextPart is a text fragment. Fragments are joined with a blank line into a
// single prompt.
type TextPart struct {
	Text string
}

func (TextPart) isUserInput() {}

// LocalImagePart references an image on the local filesystem, passed to the
// CLI by path.
type LocalImagePart struct {
	Path string
}

func (LocalImagePart) isUserInput() {}

// normalizeInput reduces an Input to a prompt string and an ordered list of
// image paths.
func normalizeInput(input Input) (prompt string, images []string) {
	switch in := input.(type) {
	case Text:
		return string(in), nil
	case Parts:
		var fragments []string
		for _, part := range in {
			switch p := part.(type) {
			case TextPart:
				fragments = append(fragments, p.Text)
			case LocalImagePart:
				images = append(images, p.Path)
			}
		}
		return strings.Join(fragments, "\n\n"), images
	default:
		return "", nil
	}
}
