package model

import "fmt"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleDasher     Role = "dasher"
	RoleRestaurant Role = "restaurant"
)

// 3ロールの一覧（表示順）
var Roles = []Role{RoleCustomer, RoleDasher, RoleRestaurant}

// ParseRole はパスパラメータなどからロールを取り出す。
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDasher, RoleRestaurant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// ローカルストレージのキー
func (r Role) StorageKey() string {
	return string(r)
}

// 永続化JSONの認証フラグのフィールド名（customerAuthenticatedなど）
func (r Role) AuthenticatedField() string {
	return string(r) + "Authenticated"
}
