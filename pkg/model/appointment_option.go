package model

// AppointmentOption is one treatment in the catalog. Slots holds the full
// set of bookable labels; the availability service replaces it with the
// remaining labels for a requested date before the option leaves the API.
type AppointmentOption struct {
	ID    string   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string   `json:"name" bson:"name"`
	Price float64  `json:"price" bson:"price"`
	Slots []string `json:"slots" bson:"slots"`
}

// OptionName is the projection returned by the specialty listing; only the
// catalog key survives.
type OptionName struct {
	ID   string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}
