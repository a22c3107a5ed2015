package domain

// Role роль пользователя
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleDriver || r == RoleAdmin
}

// UserRef идентификационные поля пользователя для денормализованных представлений
type UserRef struct {
	ID    int64
	Name  string
	Email string
	Phone *string
}
