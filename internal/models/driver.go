package models

const (
	DriverAvailable = "Available"
	DriverOnTrip    = "OnTrip"
)

type Driver struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Phone  string  `json:"phone" yaml:"phone"`
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
	Status string  `json:"status" yaml:"status"`
}

func (d Driver) IsAvailable() bool {
	return d.Status == DriverAvailable
}
