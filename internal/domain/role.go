package domain

// Role is the capability granted at login
type Role string

const (
	RoleMaster Role = "master"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleMaster || r == RoleAdmin
}

// CanEditCatalog reports whether the role may overwrite a catalog
func (r Role) CanEditCatalog() bool {
	return r.Valid()
}
