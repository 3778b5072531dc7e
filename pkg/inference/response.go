package inference

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// parsedResponse is the minimal shape every call cares about: the raw
// text/JSON the model returned, and usage if the service reported it.
type parsedResponse struct {
	content string
	usage   Usage
}

func parseResponse(resp *structpb.Struct) (parsedResponse, error) {
	fields := resp.GetFields()

	contentVal, ok := fields["content"]
	if !ok {
		return parsedResponse{}, fmt.Errorf("%w: missing \"content\" field", ErrResponseMalformed)
	}

	var content string
	switch v := contentVal.GetKind().(type) {
	case *structpb.Value_StringValue:
		content = v.StringValue
	case *structpb.Value_StructValue:
		// Some responses return the parsed JSON object directly rather
		// than its string encoding; re-serialize it so callers always
		// parse `content` as JSON text regardless of which shape arrived.
		b, err := v.StructValue.MarshalJSON()
		if err != nil {
			return parsedResponse{}, fmt.Errorf("%w: content struct unmarshalable: %v", ErrResponseMalformed, err)
		}
		content = string(b)
	default:
		return parsedResponse{}, fmt.Errorf("%w: \"content\" was not a string or object", ErrResponseMalformed)
	}

	usage := parseUsage(fields["usage"])

	return parsedResponse{content: content, usage: usage}, nil
}

func parseUsage(v *structpb.Value) Usage {
	if v == nil {
		return Usage{}
	}
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return Usage{}
	}
	fields := s.StructValue.GetFields()
	return Usage{
		PromptTokens:     intField(fields, "prompt_tokens"),
		CompletionTokens: intField(fields, "completion_tokens"),
		TotalTokens:      intField(fields, "total_tokens"),
	}
}

func intField(fields map[string]*structpb.Value, key string) int {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	return int(v.GetNumberValue())
}
