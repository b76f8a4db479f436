package requests

// ClientCreate is the payload for POST /api/clients and each item of the
// batch variant. Birthdate is required when type is PERSON,
// CompanyIdentifier when type is COMPANY.
type ClientCreate struct {
	Type              string  `json:"type"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Birthdate         *Date   `json:"birthdate"`
	CompanyIdentifier *string `json:"companyIdentifier"`
}

// ClientUpdate carries the mutable client fields only. Birthdate and
// companyIdentifier are immutable and deliberately absent.
type ClientUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
