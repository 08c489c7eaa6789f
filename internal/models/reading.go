package models

// Reading is a fill report from a bin sensor.
type Reading struct {
	BinID string `json:"binId" validate:"required"`
	Fill  *int   `json:"fill" validate:"required,min=0,max=100"` // percent
}

// ReadingResponse acknowledges an ingested sensor reading
type ReadingResponse struct {
	BinStatusResponse
	ReceivedAt string `json:"receivedAt"`
}
