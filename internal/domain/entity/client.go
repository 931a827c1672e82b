package entity

import "time"

// Client es un cliente del negocio. DNI (personas) o RUC (empresas) identifican al
// cliente ante los comprobantes; los datos de contacto se pueden prellenar desde el
// servicio externo de consulta de identidad.
type Client struct {
	ID          string
	DNI         string
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	CreatedAt   time.Time
}
