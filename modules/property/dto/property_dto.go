package dto

// CreatePropertyRequest is the payload for registering a new property.
type CreatePropertyRequest struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	MaxOccupancy int     `json:"max_occupancy"`
	MinStayDays  int     `json:"min_stay_days"`
	NightlyRate  float64 `json:"nightly_rate"`
}
