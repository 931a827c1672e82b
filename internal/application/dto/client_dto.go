package dto

// ClientRequest body para crear/actualizar un cliente.
type ClientRequest struct {
	DNI         string `json:"dni"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ClientResponse representación de un cliente.
type ClientResponse struct {
	ID          string `json:"id"`
	DNI         string `json:"dni"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// IdentityLookupResponse datos devueltos por la consulta externa de DNI/RUC.
type IdentityLookupResponse struct {
	DNI     string `json:"dni"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Found   bool   `json:"found"`
}
