package telemetry

import "github.com/yanqian/cosmo-uplink/internal/domain/missionreport"

// Snapshot is the set of readings the overview dashboard renders.
type Snapshot struct {
	Zone              string                       `json:"zone"`
	Weather           missionreport.WeatherReading `json:"weather"`
	RadiationCategory string                       `json:"radiationCategory"`
	Purity            float64                      `json:"purity"`
	Solar             SolarActivity                `json:"solar"`
	Density           DensityRange                 `json:"density"`
	MineralRatio      float64                      `json:"mineralRatio"`
	Minerals          []string                     `json:"minerals"`
}

// SolarActivity summarises flare activity.
type SolarActivity struct {
	FlarePercent float64 `json:"flarePercent"`
	Class        string  `json:"class"`
}

// DensityRange is measured in g/cm³.
type DensityRange struct {
	Min     float64 `json:"min"`
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// Rarity grades a specimen.
type Rarity string

const (
	RarityCommon Rarity = "Common"
	RarityRare   Rarity = "Rare"
	RarityExotic Rarity = "Exotic"
)

// Specimen is a catalogued rock sample.
type Specimen struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Collected string  `json:"collected"`
	Rarity    Rarity  `json:"rarity"`
	Color     string  `json:"color"`
	Distort   float64 `json:"distort"`
}

// Config carries the simulated readings.
type Config struct {
	Zone         string
	Wind         float64
	Temperature  float64
	Radiation    float64
	Purity       float64
	SolarFlares  float64
	SolarClass   string
	Minerals     []string
	DensityMin   float64
	DensityNow   float64
	DensityMax   float64
	MineralRatio float64
}
