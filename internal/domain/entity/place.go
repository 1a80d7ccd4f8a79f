package entity

// Place is a named origin/destination from the catalog
type Place struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Location Coordinate `json:"location" yaml:"location"`
}
