package roles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssign(t *testing.T) {
	a := assert.New(t)

	assignment := Assign([]Contender{
		{PlayerID: 1, Dice: []int{6, 6, 5, 5, 1}},
		{PlayerID: 2, Dice: []int{6, 6, 4, 4, 4}},
		{PlayerID: 3, Dice: []int{5, 5, 5, 2, 3}},
	}, Minimums{Ship: 1, Captain: 1, Crew: 1})

	a.True(assignment.IsVacant(RoleShip))
	a.Equal([]int64{1, 2}, assignment.Ties[RoleShip])

	id, ok := assignment.Holder(RoleCaptain)
	a.True(ok)
	a.Equal(int64(3), id)

	id, ok = assignment.Holder(RoleCrew)
	a.True(ok)
	a.Equal(int64(2), id)

	a.Equal(RoleCrew, assignment.RoleOf(2))
	a.Equal(RoleNone, assignment.RoleOf(1))
}

func TestAssign_HolderExcludedFromLowerRoles(t *testing.T) {
	a := assert.New(t)

	assignment := Assign([]Contender{
		{PlayerID: 1, Dice: []int{6, 6, 5, 5, 5}},
		{PlayerID: 2, Dice: []int{6, 5, 5, 4, 1}},
	}, Minimums{Ship: 1, Captain: 1, Crew: 1})

	id, _ := assignment.Holder(RoleShip)
	a.Equal(int64(1), id)

	// player 1 has more fives but already holds Ship
	id, _ = assignment.Holder(RoleCaptain)
	a.Equal(int64(2), id)

	a.True(assignment.IsVacant(RoleCrew))
	a.Empty(assignment.Ties)
}

func TestAssign_Minimums(t *testing.T) {
	a := assert.New(t)

	assignment := Assign([]Contender{
		{PlayerID: 1, Dice: []int{6, 1, 2, 3, 3}},
		{PlayerID: 2, Dice: []int{5, 5, 1, 2, 3}},
	}, Minimums{Ship: 2, Captain: 1, Crew: 1})

	a.True(assignment.IsVacant(RoleShip))
	a.Empty(assignment.Ties[RoleShip])

	id, _ := assignment.Holder(RoleCaptain)
	a.Equal(int64(2), id)
}

func TestRole_JSON(t *testing.T) {
	a := assert.New(t)

	b, err := json.Marshal(map[Role]int64{RoleShip: 4})
	a.NoError(err)
	a.Equal(`{"ship":4}`, string(b))

	r, err := FromString("captain")
	a.NoError(err)
	a.Equal(RoleCaptain, r)

	_, err = FromString("cook")
	a.EqualError(err, "unknown role: cook")
}
