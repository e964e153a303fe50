package schema

// UserGrantTable represents the 'users.usergrant' table
type UserGrantTable struct {
	Table     string
	UserID    string
	Code      string
	CreatedAt string
}

// UserGrant is the schema definition for users.usergrant
var UserGrant = UserGrantTable{
	Table:     "users.usergrant",
	UserID:    "userid",
	Code:      "code",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserGrantTable) Columns() []string {
	return []string{t.UserID, t.Code, t.CreatedAt}
}
