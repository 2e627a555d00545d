package models

// Address est embarquée dans les commandes et les profils utilisateurs
type Address struct {
	Street  string `json:"street" bson:"street" validate:"required,max=200"`
	City    string `json:"city" bson:"city" validate:"required,max=100"`
	State   string `json:"state" bson:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" bson:"zipCode" validate:"required,max=20"`
	Country string `json:"country" bson:"country" validate:"omitempty,max=100"`
}

const DefaultCountry = "USA"

// WithDefaults complète le pays manquant
func (a Address) WithDefaults() Address {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}
