package entity

const (
	RoleUser      = "User"
	RoleSuperUser = "SuperUser"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	UserRoleID   int64  `json:"user_role_id"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}

type UserRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Registration is the input for both register and update. Role is only honoured on update.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

/*
Mysql Schema:

CREATE TABLE user_roles (
	id BIGINT PRIMARY KEY,
	name VARCHAR(50) NOT NULL UNIQUE
);

CREATE TABLE users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	user_role_id BIGINT NOT NULL REFERENCES user_roles(id),
	is_active TINYINT(1) NOT NULL DEFAULT 1
);
*/
