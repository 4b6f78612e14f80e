package canvas

import "fmt"

// DuplicateConnectionError is returned by Connections.Connect when the
// (item, handle) pair already has a connection record; the caller must
// disconnect first.
type DuplicateConnectionError struct {
	Item        any
	HandleIndex int
}

func (e *DuplicateConnectionError) Error() string {
	return fmt.Sprintf("canvas: handle %d of %v is already connected", e.HandleIndex, e.Item)
}

// ReentrantUpdateError is returned by Canvas.Update when it is called
// while an update on the same Canvas is already in progress, for example
// from within a pre_update/post_update hook or an observer callback.
type ReentrantUpdateError struct{}

func (e *ReentrantUpdateError) Error() string {
	return "canvas: update() called while an update is already in progress"
}
