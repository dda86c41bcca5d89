package config

// Keywords holds the competitor terms the pipeline watches for and the
// minimum fuzzy score required for a non-exact match. Term order matters:
// when several terms match equally well, the earliest one wins.
type Keywords struct {
	Terms     []string `yaml:"terms"`
	Threshold int      `yaml:"threshold"`
}
