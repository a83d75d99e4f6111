package schema

import "time"

// User represents the users table - an address that has been minted a RAY token
type User struct {
	// ID is the lower-case hex address
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Address is the account address
	Address string `gorm:"column:address;not null;type:text"`
	// CreatedAt is the timestamp when this user was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this user was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

func (User) Kind() EntityKind {
	return KindUser
}

func (u *User) EntityID() string {
	return u.ID
}

func (u *User) SetEntityID(id string) {
	u.ID = id
}
