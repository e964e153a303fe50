package schema

// UserPermissionTable represents the 'users.permission' table
type UserPermissionTable struct {
	Table string
	Code  string
	Name  string
}

// UserPermission is the schema definition for users.permission
var UserPermission = UserPermissionTable{
	Table: "users.permission",
	Code:  "code",
	Name:  "name",
}

// Columns returns all standard column names
func (t UserPermissionTable) Columns() []string {
	return []string{t.Code, t.Name}
}
