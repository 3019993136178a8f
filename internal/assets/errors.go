package assets

import "errors"

var (
	// ErrLineAlreadyPosted indicates a concurrent run stamped the schedule
	// line first. The posting transaction rolls back and nothing is lost.
	ErrLineAlreadyPosted = errors.New("assets: schedule line already posted")
)
