package user

import "time"

type Role string

const (
	Student     Role = "Student"
	Staff       Role = "Staff"
	Maintenance Role = "Maintenance"
)

func (r Role) Valid() bool {
	switch r {
	case Student, Staff, Maintenance:
		return true
	}

	return false
}

type User struct {
	ID     string    `json:"id" bson:"_id" yaml:"id"`
	Name   string    `json:"name" bson:"name" yaml:"name"`
	Role   Role      `json:"role" bson:"role" yaml:"role"`
	Avatar string    `json:"avatar" bson:"avatar" yaml:"avatar"`
	Joined time.Time `json:"joined" bson:"joined" yaml:"joined"`
}
