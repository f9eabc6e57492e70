// Package replacer holds the error vocabulary shared by the frame
// replacement policies.
package replacer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrame is returned for a frame id outside [0, capacity).
	ErrInvalidFrame = errors.New("replacer: invalid frame id")
	// ErrFrameNotEvictable is returned when removing a tracked frame that is still pinned.
	ErrFrameNotEvictable = errors.New("replacer: frame is not evictable")
)

// FrameError records the operation and frame that failed.
type FrameError struct {
	Op      string
	FrameID int
	Err     error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s frame %d: %v", e.Op, e.FrameID, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// CheckFrame validates frameID against an exclusive upper bound.
func CheckFrame(op string, frameID, capacity int) error {
	if frameID < 0 || frameID >= capacity {
		return &FrameError{Op: op, FrameID: frameID, Err: ErrInvalidFrame}
	}
	return nil
}

// NotEvictable builds the error for removing a pinned frame.
func NotEvictable(op string, frameID int) error {
	return &FrameError{Op: op, FrameID: frameID, Err: ErrFrameNotEvictable}
}
