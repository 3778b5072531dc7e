package imagesource

import "path/filepath"

// IsValidRootName reports whether root contains only characters safe to
// join onto the demo directory: letters, digits, underscores, and
// hyphens. This is checked before ResolveSimulationRoot so a malformed
// root is rejected with a clear "bad characters" error rather than an
// opaque path-traversal one.
func IsValidRootName(root string) bool {
	if root == "" {
		return true
	}
	for _, r := range root {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// ResolveSimulationRoot resolves root (a user-supplied subfolder name,
// possibly empty) against demoRoot and guarantees the result is demoRoot
// itself or a descendant of it. Unlike a string-prefix check (the
// original's `str(resolved).startswith(str(demo_root))`, which would
// wrongly accept a sibling directory like "demo2" against a "demo"
// prefix), this walks the actual relative path between the two resolved
// absolute paths and rejects any result that escapes via "..".
func ResolveSimulationRoot(demoRoot, root string) (string, error) {
	absDemoRoot, err := filepath.Abs(demoRoot)
	if err != nil {
		return "", err
	}

	target := absDemoRoot
	if root != "" {
		target = filepath.Join(absDemoRoot, root)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absDemoRoot, absTarget)
	if err != nil {
		return "", ErrPathTraversal
	}
	if rel == ".." || hasParentPrefix(rel) {
		return "", ErrPathTraversal
	}

	return absTarget, nil
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
