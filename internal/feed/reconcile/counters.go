package reconcile

// Counters accumulates per-pass outcomes, reported at the end of the pass.
type Counters struct {
	New              int `json:"new"`
	Updated          int `json:"updated"`
	Unchanged        int `json:"unchanged"`
	Failed           int `json:"failed"`
	MissingAddress   int `json:"missing_address"`
	GeocodeRequested int `json:"geocode_requested"`
	GeocodeSucceeded int `json:"geocode_succeeded"`
}

func (c *Counters) Add(other Counters) {
	c.New += other.New
	c.Updated += other.Updated
	c.Unchanged += other.Unchanged
	c.Failed += other.Failed
	c.MissingAddress += other.MissingAddress
	c.GeocodeRequested += other.GeocodeRequested
	c.GeocodeSucceeded += other.GeocodeSucceeded
}
