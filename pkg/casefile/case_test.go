package casefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCase() *Case {
	return &Case{
		ID:           "vineyard_reunion",
		Title:        "The Vineyard Reunion",
		Description:  "A reunion ends in murder.",
		Setting:      "in the wine cellar at Rosewood Vineyard estate",
		Victim:       "Marcus Thornfield",
		MurderWeapon: "vintage wine bottle",
		MurderTime:   "11:30 PM",
		Active:       true,
		Suspects: []Suspect{
			{
				ID:          "elena_vasquez",
				Name:        "Elena Vasquez",
				Title:       "Theater Director",
				Personality: "Confident and charismatic",
				Background:  "Close friends with Marcus in college",
				Secret:      "Embezzled theater funds",
				Alibi:       "Working on production notes",
			},
			{
				ID:          "david_park",
				Name:        "David Park",
				Title:       "Tech Entrepreneur",
				Personality: "Anxious and distracted",
				Background:  "College roommate of Marcus",
				Secret:      "Embezzling investor funds",
				Alibi:       "On the terrace taking a call",
			},
		},
		Solution: Solution{
			Killer: "elena_vasquez",
			Motive: "Blackmail",
			Method: "Struck with a wine bottle",
		},
	}
}

func TestCase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Case)
		wantErr string
	}{
		{name: "valid case", mutate: func(c *Case) {}},
		{
			name:    "missing id",
			mutate:  func(c *Case) { c.ID = "" },
			wantErr: "ID",
		},
		{
			name:    "missing victim",
			mutate:  func(c *Case) { c.Victim = "" },
			wantErr: "victim",
		},
		{
			name:    "no suspects",
			mutate:  func(c *Case) { c.Suspects = nil },
			wantErr: "at least one suspect",
		},
		{
			name:    "duplicate suspect id",
			mutate:  func(c *Case) { c.Suspects[1].ID = "elena_vasquez" },
			wantErr: "duplicate suspect",
		},
		{
			name:    "killer not a suspect",
			mutate:  func(c *Case) { c.Solution.Killer = "nobody" },
			wantErr: "not a suspect",
		},
		{
			name:    "no killer named",
			mutate:  func(c *Case) { c.Solution.Killer = "" },
			wantErr: "killer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCase()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestCase_Suspect(t *testing.T) {
	c := testCase()

	s, err := c.Suspect("david_park")
	require.NoError(t, err)
	assert.Equal(t, "David Park", s.Name)

	_, err = c.Suspect("unknown")
	assert.ErrorContains(t, err, "unknown suspect")
}

func TestCase_Killer(t *testing.T) {
	c := testCase()
	k := c.Killer()
	require.NotNil(t, k)
	assert.Equal(t, "Elena Vasquez", k.Name)
}

func TestCase_CharacterNames(t *testing.T) {
	c := testCase()
	names := c.CharacterNames()
	assert.Equal(t, []string{"Elena Vasquez", "David Park", "Marcus Thornfield"}, names)
}

func TestCase_CheckAccusation(t *testing.T) {
	c := testCase()
	assert.True(t, c.CheckAccusation("elena_vasquez"))
	assert.True(t, c.CheckAccusation("ELENA_VASQUEZ"))
	assert.False(t, c.CheckAccusation("david_park"))
}
