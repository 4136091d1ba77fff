package telemetry

var specimens = []Specimen{
	{ID: "S-101", Name: "Xenolith Alpha", Type: "Igneous", Collected: "2045-04-12", Rarity: RarityRare, Color: "#b45309", Distort: 0.4},
	{ID: "S-102", Name: "Lunar Basalt", Type: "Volcanic", Collected: "2045-04-10", Rarity: RarityCommon, Color: "#52525b", Distort: 0.2},
	{ID: "S-103", Name: "Cryo Crystal", Type: "Metamorphic", Collected: "2045-04-08", Rarity: RarityExotic, Color: "#3b82f6", Distort: 0.8},
	{ID: "S-104", Name: "Martian Clay", Type: "Sedimentary", Collected: "2045-03-22", Rarity: RarityCommon, Color: "#ef4444", Distort: 0.3},
	{ID: "S-105", Name: "Void Shard", Type: "Unknown", Collected: "2045-03-15", Rarity: RarityExotic, Color: "#7e22ce", Distort: 1.2},
	{ID: "S-106", Name: "Iron Nodule", Type: "Metallic", Collected: "2045-03-01", Rarity: RarityCommon, Color: "#71717a", Distort: 0.1},
	{ID: "S-107", Name: "Sulfur Geode", Type: "Chemical", Collected: "2045-02-28", Rarity: RarityRare, Color: "#eab308", Distort: 0.5},
	{ID: "S-108", Name: "Obsidian Glass", Type: "Volcanic", Collected: "2045-02-20", Rarity: RarityRare, Color: "#171717", Distort: 0.1},
}
