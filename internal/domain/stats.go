package domain

// CommitStats describes how commits are spread over the active repositories.
type CommitStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}
