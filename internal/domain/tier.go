package domain

// TierConfigRequest asks for a reseller tier account configuration.
type TierConfigRequest struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Configuration TierConfig `json:"configuration"`
	Params        Params     `json:"params,omitempty"`
}

func (t *TierConfigRequest) ProductID() string {
	return t.Configuration.Product.ID
}

type TierConfig struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Status    string  `json:"status,omitempty"`
	TierLevel int     `json:"tier_level,omitempty"`
	Account   Account `json:"account"`
	Product   Product `json:"product"`
	Params    Params  `json:"params,omitempty"`
}

type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
