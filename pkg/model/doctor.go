package model

// Doctor is a roster entry managed through the admin-gated endpoints.
type Doctor struct {
	ID        string `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" bson:"email" validate:"required,email"`
	Specialty string `json:"specialty" bson:"specialty" validate:"required"`
	Image     string `json:"image,omitempty" bson:"image,omitempty"`
}
