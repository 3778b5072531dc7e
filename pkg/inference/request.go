package inference

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// buildRequest assembles the generic structpb payload sent to the model
// service: a single text part plus zero or more inline image parts,
// temperature pinned to 0 for deterministic classification/evaluation,
// and the model identifier the caller wants routed to.
func buildRequest(model, text string, images []imagePart) (*structpb.Struct, error) {
	imageValues := make([]any, len(images))
	for i, img := range images {
		imageValues[i] = map[string]any{
			"url":    img.dataURL,
			"detail": "low",
		}
	}

	return structpb.NewStruct(map[string]any{
		"model":       model,
		"temperature": float64(0),
		"text":        text,
		"images":      imageValues,
	})
}
