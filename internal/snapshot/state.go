// Package snapshot defines the full-enumeration image of the registry and
// the worker that periodically hands it to durable storage.
package snapshot

import (
	"time"

	"github.com/iliyamo/learning-hub/internal/model"
)

// State is everything needed to rebuild the registry after a restart.
type State struct {
	TakenAt    time.Time             `json:"taken_at"`
	Users      []model.User          `json:"users"`
	Courses    []model.Course        `json:"courses"`
	Videos     []model.Video         `json:"videos"`
	Hackathons []model.Hackathon     `json:"hackathons"`
	Counters   map[model.Kind]uint64 `json:"counters"`
}
