// Package model contains domain models passed between layers.
package model

import "time"

// Rating is a subjective wellness rating on the external 1-4 scale where
// 1 is best and 4 is worst. Zero means the rating was not reported.
type Rating int

// Rating levels on the external scale.
const (
	RatingUnset Rating = iota
	RatingBest
	RatingGood
	RatingPoor
	RatingWorst
)

// Reported returns true if the rating was actually supplied.
func (r Rating) Reported() bool {
	return r >= RatingBest && r <= RatingWorst
}

// AlcoholLevel encodes the previous day's alcohol intake.
type AlcoholLevel int

// Alcohol intake levels.
const (
	AlcoholNone AlcoholLevel = iota
	AlcoholSome
	AlcoholHeavy
)

// WellnessRecord is one athlete-day of physiological and subjective
// telemetry. Records are immutable once produced by the data source and
// are keyed by Date. Optional float fields use zero as "not reported";
// HRV and RHR are strictly positive when present.
type WellnessRecord struct {
	Date       time.Time    `json:"date"`
	HRV        float64      `json:"hrv,omitempty"`         // ms, rMSSD
	RHR        float64      `json:"rhr,omitempty"`         // bpm
	SleepScore float64      `json:"sleep_score,omitempty"` // 0-100 quality
	SleepHours float64      `json:"sleep_hours,omitempty"`
	Fatigue    Rating       `json:"fatigue,omitempty"`
	Stress     Rating       `json:"stress,omitempty"`
	Motivation Rating       `json:"motivation,omitempty"`
	Mood       Rating       `json:"mood,omitempty"`
	Soreness   Rating       `json:"soreness,omitempty"`
	Injury     Rating       `json:"injury,omitempty"`
	Alcohol    AlcoholLevel `json:"alcohol,omitempty"`
}

// Day returns the record date truncated to midnight UTC, the canonical
// key used by stores and baselines.
func (w WellnessRecord) Day() time.Time {
	return w.Date.UTC().Truncate(24 * time.Hour)
}

// HasObjective reports whether the record carries at least one of the
// HRV/RHR/sleep signals. Only such days qualify for the trend series.
func (w WellnessRecord) HasObjective() bool {
	return w.HRV > 0 || w.RHR > 0 || w.SleepScore > 0 || w.SleepHours > 0
}

// UpdateID is the idempotency key of a wellness update. Producers may
// assign their own; the service derives one from the payload otherwise.
type UpdateID string

// Update is the ingestion envelope for a wellness record. UpdateID is
// used for idempotency, AthleteID scopes the record to a subject.
type Update struct {
	UpdateID  UpdateID
	AthleteID string
	Record    WellnessRecord
}

// ScorePoint is one day of the re-derived readiness series consumed by
// the trend analyzer. Objective carries the HRV+RHR+sleep sub-score used
// by the correlation analyzer.
type ScorePoint struct {
	Date      time.Time
	Score     float64
	Objective float64
}
