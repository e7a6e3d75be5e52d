package stateful

func year(y int) *int { return &y }

// DefaultCastles returns the built-in castle dataset.
func DefaultCastles() []Castle {
	return []Castle{
		{ID: "c1", Name: "Château de Versailles", Region: "Île-de-France", YearBuilt: 1623,
			Description: "Royal residence that grew from a hunting lodge into the seat of the French court."},
		{ID: "c2", Name: "Château de Fontainebleau", Region: "Île-de-France", YearBuilt: 1137,
			Description: "Residence of French sovereigns for eight centuries."},
		{ID: "c3", Name: "Château de Chambord", Region: "Centre-Val de Loire", YearBuilt: 1519,
			Description: "Renaissance château known for its double-helix staircase."},
		{ID: "c4", Name: "Palais du Louvre", Region: "Île-de-France", YearBuilt: 1190,
			Description: "Fortress turned royal palace on the right bank of the Seine."},
		{ID: "c5", Name: "Château de Pau", Region: "Nouvelle-Aquitaine", YearBuilt: 1370,
			Description: "Birthplace of Henri IV."},
		{ID: "c6", Name: "Neuschwanstein Castle", Region: "Bavaria", YearBuilt: 1869,
			Description: "Romanesque Revival palace commissioned by Ludwig II."},
		{ID: "c7", Name: "Windsor Castle", Region: "Berkshire", YearBuilt: 1070,
			Description: "Oldest and largest occupied castle in the world."},
	}
}

// DefaultRulers returns the built-in ruler dataset.
func DefaultRulers() []Ruler {
	return []Ruler{
		{ID: "r1", Name: "Louis XIV", Title: "King of France", ReignStart: 1643, ReignEnd: year(1715),
			House: "Bourbon", CastleIDs: []string{"c1", "c2", "c4"},
			Description:  "The Sun King, longest-reigning monarch in European history.",
			Achievements: []string{"Moved the court to Versailles", "Revoked the Edict of Nantes"}},
		{ID: "r2", Name: "Louis XIII", Title: "King of France", ReignStart: 1610, ReignEnd: year(1643),
			House: "Bourbon", CastleIDs: []string{"c1", "c4"},
			Description:  "Built the hunting lodge that became Versailles.",
			Achievements: []string{"Founded the Académie française"}},
		{ID: "r3", Name: "Henri IV", Title: "King of France", ReignStart: 1589, ReignEnd: year(1610),
			House: "Bourbon", CastleIDs: []string{"c2", "c4", "c5"},
			Description:  "First Bourbon king of France.",
			Achievements: []string{"Issued the Edict of Nantes"}},
		{ID: "r4", Name: "François I", Title: "King of France", ReignStart: 1515, ReignEnd: year(1547),
			House: "Valois-Angoulême", CastleIDs: []string{"c2", "c3"},
			Description:  "Patron of the French Renaissance.",
			Achievements: []string{"Commissioned Chambord", "Ordinance of Villers-Cotterêts"}},
		{ID: "r5", Name: "Ludwig II", Title: "King of Bavaria", ReignStart: 1864, ReignEnd: year(1886),
			House: "Wittelsbach", CastleIDs: []string{"c6"},
			Description:  "The Swan King.",
			Achievements: []string{"Commissioned Neuschwanstein"}},
		{ID: "r6", Name: "Charles III", Title: "King of the United Kingdom", ReignStart: 2022,
			House: "Windsor", CastleIDs: []string{"c7"},
			Description:  "",
			Achievements: []string{}},
	}
}
