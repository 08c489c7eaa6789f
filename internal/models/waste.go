package models

// DailyWaste is the collected weight per waste type for one day.
type DailyWaste struct {
	Date         string  `json:"date" db:"date"`
	OrganicKg    float64 `json:"total_organic_kg" db:"total_organic_kg"`
	RecyclableKg float64 `json:"total_recyclable_kg" db:"total_recyclable_kg"`
	HazardousKg  float64 `json:"total_hazardous_kg" db:"total_hazardous_kg"`
}

func (d DailyWaste) TotalKg() float64 {
	return d.OrganicKg + d.RecyclableKg + d.HazardousKg
}

// WasteSummary aggregates a range of DailyWaste rows.
type WasteSummary struct {
	Days               int     `json:"days"`
	TotalOrganicKg     float64 `json:"total_organic_kg"`
	TotalRecyclableKg  float64 `json:"total_recyclable_kg"`
	TotalHazardousKg   float64 `json:"total_hazardous_kg"`
	AvgOrganicKg       float64 `json:"avg_organic_kg"`
	AvgRecyclableKg    float64 `json:"avg_recyclable_kg"`
	AvgHazardousKg     float64 `json:"avg_hazardous_kg"`
	AvgDailyTotalKg    float64 `json:"avg_daily_total_kg"`
	StdDevDailyTotalKg float64 `json:"stddev_daily_total_kg"`
}

// DashboardResponse is returned by GET /dashboard/data
type DashboardResponse struct {
	Days    []DailyWaste `json:"days"`
	Summary WasteSummary `json:"summary"`
}

// AdminDashboardResponse is returned by GET /admin/dashboard
type AdminDashboardResponse struct {
	Summary  WasteSummary `json:"summary"`
	PeakDays []DailyWaste `json:"peak_days"`
	LowDays  []DailyWaste `json:"low_days"`
}
