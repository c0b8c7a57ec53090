package rule

import "github.com/arloliu/leadroute/types"

// DefaultFallbackTerritory is the territory assigned to locations no keyword matches.
const DefaultFallbackTerritory = "Central"

// DefaultSet returns the stock San Diego county rule set with every group enabled.
//
// Returns:
//   - *Set: New rule set owned by the caller
func DefaultSet() *Set {
	return &Set{
		Territory: TerritoryRule{
			Enabled: true,
			Keywords: []TerritoryKeywords{
				{Territory: "North County", Keywords: []string{"north", "carlsbad", "oceanside"}},
				{Territory: "South County", Keywords: []string{"south", "chula vista", "national city"}},
				{Territory: "East County", Keywords: []string{"east", "el cajon", "santee"}},
				{Territory: "West County", Keywords: []string{"west", "point loma", "ocean beach"}},
				{Territory: "Central", Keywords: []string{"downtown", "hillcrest", "mission valley"}},
			},
			Fallback: DefaultFallbackTerritory,
			Members: map[string][]string{
				"North County": {"agent_nc_001", "agent_nc_002"},
				"South County": {"agent_sc_001", "agent_sc_002"},
				"East County":  {"agent_ec_001"},
				"West County":  {"agent_wc_001", "agent_wc_002"},
				"Central":      {"agent_c_001", "agent_c_002", "agent_c_003"},
			},
		},
		Score: ScoreRule{
			Enabled: true,
			Thresholds: []ScoreThreshold{
				{MinScore: 80, Level: types.LevelSenior},
				{MinScore: 50, Level: types.LevelMid},
				{MinScore: 0, Level: types.LevelJunior},
			},
		},
		Source: SourceRule{
			Enabled: true,
			Groups: map[string]string{
				"Referral": "preferredAgents",
				"Walk-in":  "floorDuty",
				"Website":  "digitalSpecialists",
				"Partner":  "partnerSpecialists",
			},
		},
		Specialty: SpecialtyRule{
			Enabled: true,
			Specialists: map[string][]string{
				"Single Family": {"agent_sf_001", "agent_sf_002"},
				"Condo":         {"agent_condo_001"},
				"Multi-Family":  {"agent_mf_001"},
				"Commercial":    {"agent_comm_001"},
				"Land":          {"agent_land_001"},
			},
		},
		Language: LanguageRule{
			Enabled: true,
			Languages: map[string][]string{
				"Spanish":    {"agent_001", "agent_005", "agent_008"},
				"Mandarin":   {"agent_003", "agent_007"},
				"Vietnamese": {"agent_004"},
				"Tagalog":    {"agent_006"},
			},
		},
		Budget: BudgetRule{
			Enabled: true,
			Tiers: []BudgetTier{
				{MinBudget: 1000000, Workers: []string{"agent_luxury_001", "agent_luxury_002"}},
				{MinBudget: 500000, Workers: []string{"agent_mid_001", "agent_mid_002", "agent_mid_003"}},
				{MinBudget: 0, Workers: []string{"agent_entry_001", "agent_entry_002"}},
			},
		},
		RoundRobin: RoundRobinPolicy{
			Enabled:   true,
			TieMargin: DefaultTieMargin,
		},
	}
}
