// Package locator resolves the blob storage path of an activity's FIT
// file. The path layout has drifted over the system's history, so every
// layout that was ever written is tried in a fixed priority order; the
// ordering is a compatibility shim and must not change.
package locator

import (
	"context"
	"fmt"
	"strings"

	shared "github.com/redcap-42/runboard/pkg"
)

// Attempt records one failed candidate path for diagnostics.
type Attempt struct {
	Path string
	Err  error
}

// ResolutionError reports that every candidate path failed. It carries one
// attempt per candidate, in the order they were tried.
type ResolutionError struct {
	UserID     string
	ActivityID string
	Attempts   []Attempt
}

func (e *ResolutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no fit file found for activity %s (user %s), tried %d paths:",
		e.ActivityID, e.UserID, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, " [%s: %v]", a.Path, a.Err)
	}
	return sb.String()
}

// CanonicalPath is where newly imported FIT files are written.
func CanonicalPath(userID, activityID string) string {
	return fmt.Sprintf("%s/fitFiles/%s.fit", userID, activityID)
}

// CandidatePaths returns every storage path the file may live under, in
// resolution priority order. The hint, when non-empty, is the path the
// file was last known to be stored at and always goes first.
func CandidatePaths(userID, activityID, hint string) []string {
	paths := make([]string, 0, 5)
	if hint != "" {
		paths = append(paths, hint)
	}
	return append(paths,
		CanonicalPath(userID, activityID),
		fmt.Sprintf("%s/%s.fit", userID, activityID),
		fmt.Sprintf("%s/files/%s.fit", userID, activityID),
		fmt.Sprintf("%s/activities/%s.fit", userID, activityID),
	)
}

type Resolver struct {
	Store  shared.BlobStore
	Bucket string
}

// Resolve downloads the activity's FIT file, trying each candidate path
// sequentially and stopping at the first success. The loop is inherently
// sequential: a later candidate is only consulted once the previous one
// has failed. Returns the bytes and the path that worked.
func (r *Resolver) Resolve(ctx context.Context, userID, activityID, hint string) ([]byte, string, error) {
	var attempts []Attempt
	for _, path := range CandidatePaths(userID, activityID, hint) {
		data, err := r.Store.Read(ctx, r.Bucket, path)
		if err != nil {
			attempts = append(attempts, Attempt{Path: path, Err: err})
			continue
		}
		return data, path, nil
	}

	return nil, "", &ResolutionError{
		UserID:     userID,
		ActivityID: activityID,
		Attempts:   attempts,
	}
}
