package imaging

// Profile bundles the resize/quality target for one pipeline stage, so
// callers don't have to thread two config fields through every
// sampling call.
type Profile struct {
	MaxEdge int
	Quality int
}

// SampleForClassification deterministically picks images for a coarse
// classification call. When there are k or fewer images, all of them are
// used; otherwise the first, two mid-points, and last are used (up to
// four images, whatever k is). The indices
// (0, n/3, 2n/3, n-1, integer division) are fixed regardless of image
// content, so repeated runs over the same input always sample the same
// frames.
func SampleForClassification(images [][]byte, k int, profile Profile) [][]byte {
	var sampled [][]byte
	if len(images) <= k {
		sampled = images
	} else {
		sampled = pickByIndex(images, classificationIndices(len(images)))
	}
	return normalizeAll(sampled, profile)
}

// SampleForChecklist takes the first k images for detailed checklist
// evaluation (more images means more thorough coverage of the room, so
// unlike classification there is no benefit to spreading the sample
// across the whole set).
func SampleForChecklist(images [][]byte, k int, profile Profile) [][]byte {
	sampled := images
	if len(images) > k {
		sampled = images[:k]
	}
	return normalizeAll(sampled, profile)
}

// classificationIndices returns the four sample positions for a gallery
// of size n, sorted and de-duplicated (small galleries can produce
// repeated indices, e.g. n=1 gives {0,0,0,0}).
func classificationIndices(n int) []int {
	idx := map[int]bool{
		0:             true,
		n / 3:         true,
		(2 * n) / 3:   true,
		n - 1:         true,
	}

	positions := make([]int, 0, len(idx))
	for i := range idx {
		positions = append(positions, i)
	}

	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j-1] > positions[j]; j-- {
			positions[j-1], positions[j] = positions[j], positions[j-1]
		}
	}

	return positions
}

func pickByIndex(images [][]byte, indices []int) [][]byte {
	picked := make([][]byte, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, images[i])
	}
	return picked
}

func normalizeAll(images [][]byte, profile Profile) [][]byte {
	normalized := make([][]byte, len(images))
	for i, img := range images {
		normalized[i] = Normalize(img, profile.MaxEdge, profile.Quality)
	}
	return normalized
}
