package domain

import "time"

type Role string

const (
	RoleShopkeeper Role = "shopkeeper"
	RoleSupervisor Role = "supervisor"
	RoleOperator   Role = "operator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleShopkeeper, RoleSupervisor, RoleOperator:
		return true
	}
	return false
}

type User struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ShopName     string    `json:"shop_name,omitempty"`    // shopkeepers
	CompanyName  string    `json:"company_name,omitempty"` // supervisors and operators
	SupervisorEmail string `json:"supervisor_email,omitempty"` // operators
	IsActive     bool      `json:"is_active"`
	CreatedOn    time.Time `json:"created_on"`
}
