package dto

import "time"

type EvaluateInput struct {
	At time.Time
}

type BucketOutput struct {
	HourStart       time.Time
	StandingMinutes float64
	Complete        bool
}

type EvaluationOutput struct {
	CurrentHourComplete    bool
	ContinuousSittingHours int
	ShouldRemind           bool

	PreviousHourComplete bool
	Phase                string
	HourStart            time.Time
	EvaluatedAt          time.Time
	GoalMinutes          float64
	WindowFrom           time.Time
	WindowTo             time.Time
	Buckets              []BucketOutput
}

type BucketsInput struct {
	From time.Time
	To   time.Time
}

type BucketsOutput struct {
	From        time.Time
	To          time.Time
	GoalMinutes float64
	Buckets     []BucketOutput
	TotalMin    float64
}

type SampleInput struct {
	Start           time.Time
	End             time.Time
	DurationMinutes float64
}

type SampleOutput struct {
	Start           time.Time
	End             time.Time
	DurationMinutes float64
}

type ImportInput struct {
	Path string
}

type ImportOutput struct {
	Read     int
	Imported int
	Skipped  int
}

type ListSamplesInput struct {
	From time.Time
	To   time.Time
}

type SourceOutput struct {
	Kind    string
	Name    string
	Version string
	Detail  string
	Samples int
	Window  string
}
