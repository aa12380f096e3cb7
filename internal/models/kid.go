package models

import "time"

// DefaultTrackLength is the train track length given to new kids.
const DefaultTrackLength = 10

// Kid represents a child profile and its cached reward counters
type Kid struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	AvatarColor        string    `json:"avatar_color"`
	Balloons           int       `json:"balloons"`
	TrainTrackLength   int       `json:"train_track_length"`
	TrainLapsCompleted int       `json:"train_laps_completed"`
	CreatedAt          time.Time `json:"created_at"`
}

// KidWithStats combines a kid with their star count
type KidWithStats struct {
	Kid
	StarsCount int `json:"stars_count"`
}

// KidSnapshot is the reward state returned after every reward action
type KidSnapshot struct {
	Balloons           int `json:"balloons"`
	TrainTrackLength   int `json:"train_track_length"`
	TrainLapsCompleted int `json:"train_laps_completed"`
	StarsCount         int `json:"stars_count"`
}

// Snapshot extracts the reward counters of a kid
func (k KidWithStats) Snapshot() KidSnapshot {
	return KidSnapshot{
		Balloons:           k.Balloons,
		TrainTrackLength:   k.TrainTrackLength,
		TrainLapsCompleted: k.TrainLapsCompleted,
		StarsCount:         k.StarsCount,
	}
}

// LapsFor returns how many full laps stars cover on a track of the given
// length. ok is false when the track length cannot be divided by.
func LapsFor(stars, trackLength int) (laps int, ok bool) {
	if trackLength <= 0 {
		return 0, false
	}
	return stars / trackLength, true
}
