package models

import "time"

// Waste types a bin can hold and a station can accept.
const (
	WasteRecyclable = "Recyclable"
	WasteOrganic    = "Organic"
	WasteHazardous  = "Hazardous"
)

// WasteTypes lists the known waste types in display order.
var WasteTypes = []string{WasteRecyclable, WasteOrganic, WasteHazardous}

type Bin struct {
	ID        string    `json:"id" yaml:"id"`
	Location  string    `json:"location" yaml:"location"`
	Lat       float64   `json:"lat" yaml:"lat"`
	Lon       float64   `json:"lon" yaml:"lon"`
	Fill      int       `json:"fill" yaml:"fill"` // 0-100
	Type      string    `json:"type" yaml:"type"`
	Updated   string    `json:"updated" yaml:"updated"` // HH:MM of the last fill change
	UpdatedAt time.Time `json:"-" yaml:"-"`
}

// Touch stamps the bin with the time of its latest fill change.
func (b *Bin) Touch(now time.Time) {
	b.UpdatedAt = now
	b.Updated = now.Format("15:04")
}

// BinStatusResponse is returned by the /status endpoints and the /data ingest
type BinStatusResponse struct {
	BinID    string   `json:"binId"`
	Location string   `json:"location"`
	Fill     int      `json:"fill"`
	Type     string   `json:"type"`
	Status   string   `json:"status"`
	Alerts   []string `json:"alerts"`
	Updated  string   `json:"updated"`
}
