// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single bounded search over one input.
type Summary struct {
	Scope           string   `json:"scope"`
	TargetName      string   `json:"targetName"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	Lower           float64  `json:"lower"`
	Upper           float64  `json:"upper"`
	Floor           float64  `json:"floor"`
	Objective       float64  `json:"objective"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

// Feasible reports whether the objective at Value satisfies the floor.
func (s Summary) Feasible() bool {
	return s.Objective >= s.Floor
}
