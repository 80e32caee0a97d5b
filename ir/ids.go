package ir

import "github.com/google/uuid"

// NewID returns a fresh unique node identifier. Every generated IR node
// receives one; ids are the only permitted difference between structurally
// equivalent compilations.
func NewID() string {
	return uuid.NewString()
}
