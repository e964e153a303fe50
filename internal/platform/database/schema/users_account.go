package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	Password      string
	Role          string
	Status        string
	Avatar        string
	Website       string
	EmailVerified string
	LastLoginAt   string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	Password:      "passwordhash",
	Role:          "role",
	Status:        "status",
	Avatar:        "avatar",
	Website:       "website",
	EmailVerified: "emailverified",
	LastLoginAt:   "lastloginat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.Status,
		t.Avatar, t.Website, t.EmailVerified, t.LastLoginAt,
		t.CreatedAt, t.UpdatedAt,
	}
}
