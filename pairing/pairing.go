// Package pairing builds the cyclic sequence of two-person duty teams from
// the roster, spacing each member's repeat appearances as far apart as the
// roster size allows.
package pairing

import (
	"triage-scheduler/models"
)

// FairPairs splits the roster into two halves and emits every cross-half
// pairing such that individual recurrences are as far apart as possible.
//
// The first half is the shorter one when the roster size is odd. One pair is
// emitted per counter value in [0, s1*s2): the second-half index walks the
// counter modulo s2, while the first-half index is offset by the completed
// pass count whenever both halves are the same size. That offset is what
// shifts repeat partnerships of a first-half member onto different
// second-half members on successive passes.
//
// A roster of fewer than two members yields an empty sequence; callers must
// detect and report that case. No shuffling occurs, so identical rosters
// produce identical sequences.
func FairPairs(roster []models.StaffMember) []models.Team {
	if len(roster) < 2 {
		return nil
	}

	l1 := roster[:len(roster)/2]
	l2 := roster[len(roster)/2:]
	s1 := len(l1)
	s2 := len(l2)

	same := 0
	if s1 == s2 {
		same = 1
	}

	teams := make([]models.Team, 0, s1*s2)
	loopcount := -1
	for c := 0; c < s1*s2; c++ {
		if c%s1 == 0 {
			loopcount++
		}
		i := (c + loopcount*same) % s1
		j := c % s2
		teams = append(teams, models.Team{First: l1[i], Second: l2[j]})
	}
	return teams
}

// Rotation is the cyclic sequence of teams covering one full pairing cycle.
type Rotation []models.Team

// NewRotation computes the rotation for a roster.
func NewRotation(roster []models.StaffMember) Rotation {
	return Rotation(FairPairs(roster))
}

// Rotate returns the cycle rotated left by offset: the team at cyclic index
// offset becomes index 0. The offset may be negative or exceed the rotation
// length; it is reduced modulo the length.
func (r Rotation) Rotate(offset int) Rotation {
	n := len(r)
	if n == 0 {
		return r
	}
	offset = ((offset % n) + n) % n
	if offset == 0 {
		return r
	}
	rotated := make(Rotation, 0, n)
	rotated = append(rotated, r[offset:]...)
	rotated = append(rotated, r[:offset]...)
	return rotated
}

// Team returns the team at cyclic index i.
func (r Rotation) Team(i int) models.Team {
	return r[i%len(r)]
}
