package domain

// PermissionCompanyScoped permission level restricted to its own company's bookings
const PermissionCompanyScoped = 3

// AuthUser authenticated caller, extracted from the access token
type AuthUser struct {
	ID           int64
	Login        string // e-mail address, used for notifications
	PermissionID int
	CompanyID    *int64
}

// IsCompanyScoped returns true if the user may only see its own company's data
func (u AuthUser) IsCompanyScoped() bool {
	return u.PermissionID == PermissionCompanyScoped
}
