package testing

import "github.com/arloliu/leadroute/types"

// SampleRoster returns a small roster covering every level and several territories.
//
// Loads are low enough that every worker has spare capacity.
func SampleRoster() []types.Worker {
	return []types.Worker{
		{
			ID:          "agent_001",
			Name:        "John Smith",
			Level:       types.LevelSenior,
			Specialties: []string{"Single Family", "Luxury"},
			Languages:   []string{"English", "Spanish"},
			Territories: []string{"North County", "Central"},
			MaxCapacity: 50,
			CurrentLoad: 10,
		},
		{
			ID:          "agent_002",
			Name:        "Jane Doe",
			Level:       types.LevelMid,
			Specialties: []string{"Condo", "First-Time Buyers"},
			Languages:   []string{"English"},
			Territories: []string{"South County"},
			MaxCapacity: 40,
			CurrentLoad: 28,
		},
		{
			ID:          "agent_003",
			Name:        "Mike Chen",
			Level:       types.LevelSenior,
			Specialties: []string{"Multi-Family", "Investment"},
			Languages:   []string{"English", "Mandarin"},
			Territories: []string{"East County", "Central"},
			MaxCapacity: 45,
			CurrentLoad: 41,
		},
		{
			ID:          "agent_004",
			Name:        "Linh Tran",
			Level:       types.LevelJunior,
			Specialties: []string{"Condo"},
			Languages:   []string{"English", "Vietnamese"},
			Territories: []string{"West County"},
			MaxCapacity: 20,
			CurrentLoad: 2,
		},
	}
}
