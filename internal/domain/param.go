package domain

// Param is an ordering or fulfillment parameter. ValueError carries the
// correction message shown to the customer while a request is inquiring.
type Param struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Value       string   `json:"value,omitempty"`
	ValueError  string   `json:"value_error,omitempty"`
	ValueChoice []string `json:"value_choice,omitempty"`
}

// WithValue returns a copy of p carrying value.
func (p Param) WithValue(value string) Param {
	p.Value = value
	return p
}

// WithError returns a copy of p annotated with msg.
func (p Param) WithError(msg string) Param {
	p.ValueError = msg
	return p
}

type Params []Param

// ByID returns a copy of the param with the given id.
func (ps Params) ByID(id string) (Param, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Param{}, false
}
