package models

// Provider is a bookable stylist at the configured location.
type Provider struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
}

// DisplayName prefers the nickname the salon shows to guests.
func (p Provider) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}
