package heltour

// PairingRecord is one pairing row as served by the scorekeeping API.
type PairingRecord struct {
	White         string `json:"white"`
	Black         string `json:"black"`
	Result        string `json:"result,omitempty"`
	GameLink      string `json:"game_link,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"` // RFC3339, optional
}

type pairingsResponse struct {
	Pairings []PairingRecord `json:"pairings"`
}

type updatePairingRequest struct {
	League   string `json:"league"`
	White    string `json:"white"`
	Black    string `json:"black"`
	Result   string `json:"result,omitempty"`
	GameLink string `json:"game_link,omitempty"`
}

// UpdateResponse reports which pairing fields an update actually changed.
// Both flags false means the call was a no-op (the pairing already carried
// the submitted values).
type UpdateResponse struct {
	Updated         bool `json:"updated"`
	ResultChanged   bool `json:"resultChanged"`
	GamelinkChanged bool `json:"gamelinkChanged"`
	Reversed        bool `json:"reversed"`
}

type gameWarningRequest struct {
	League string `json:"league"`
	White  string `json:"white"`
	Black  string `json:"black"`
	Reason string `json:"reason"`
}
