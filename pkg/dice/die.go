package dice

import "fmt"

// Sides is the number of faces on a die
const Sides = 6

// Die is an individual six-sided die
type Die struct {
	Value  int  `json:"value"`
	Locked bool `json:"locked"`
	// Public is true once the die has been revealed to opponents
	Public bool `json:"public"`
}

// IsRolled returns true if the die shows a face
func (d Die) IsRolled() bool {
	return d.Value >= 1 && d.Value <= Sides
}

// String returns the face value, with a marker if it is locked
func (d Die) String() string {
	if !d.IsRolled() {
		return "-"
	}

	if d.Locked {
		return fmt.Sprintf("[%d]", d.Value)
	}

	return fmt.Sprintf("%d", d.Value)
}
