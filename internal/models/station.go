package models

type Station struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Lat          float64 `json:"lat" yaml:"lat"`
	Lon          float64 `json:"lon" yaml:"lon"`
	CapacityKg   int     `json:"capacityKg" yaml:"capacityKg"`
	AcceptedType string  `json:"acceptedType" yaml:"acceptedType"`
}

// StationsByType groups stations by the waste type they accept.
type StationsByType map[string][]Station
