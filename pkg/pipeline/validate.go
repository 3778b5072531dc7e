package pipeline

import "fmt"

// validateRunRequest rejects a request before any inference call is made:
// a run with no house-level images, or no rooms at all, can't produce a
// meaningful report. A room with zero images is not rejected here — it is
// skipped during the run instead, the same as a room whose inference
// fails (spec: a room with no successfully-fetched images is logged and
// excluded, the pipeline continues for the rest).
func validateRunRequest(req RunRequest) error {
	if len(req.AllImages) == 0 {
		return validationError("all_images", "at least one house-level image is required")
	}
	if len(req.Rooms) == 0 {
		return validationError("rooms", "at least one room is required")
	}
	for i, room := range req.Rooms {
		if room.RoomID == "" {
			return validationError(fmt.Sprintf("rooms[%d].room_id", i), "room_id must not be empty")
		}
	}
	return nil
}

// validateTypes filters detected to the set present in allowed. It logs
// nothing, and its callers do not log an empty result either. An empty
// allowed list means "no restriction": detected is returned unchanged.
// This mirrors
// a model-independent guard the original keeps distinct from the model
// call's own allowed-type filtering, even though in practice
// inference.Classify never returns a type outside allowed.
func validateTypes(detected, allowed []string) []string {
	if len(allowed) == 0 {
		return detected
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = true
	}
	var kept []string
	for _, t := range detected {
		if allowedSet[t] {
			kept = append(kept, t)
		}
	}
	return kept
}
