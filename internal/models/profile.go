package models

type Profile struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"first_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BustSize   string `json:"bust_size"`
	WaistSize  string `json:"waist_size"`
	HipSize    string `json:"hip_size"`
	Height     string `json:"height"`
	PantLength string `json:"pant_length"`
}
