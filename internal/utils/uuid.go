package utils

import "github.com/google/uuid"

// NewFeatureID returns a fresh id for a locally added feature. V7 ids sort
// by creation time, which keeps locally added features grouped in ordered
// pending-edit listings; falls back to a random V4 if V7 generation fails.
func NewFeatureID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
