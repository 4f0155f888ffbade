package catalog

import (
	"campusalert/pkg/user"
	"time"
)

type Category struct {
	ID    string `json:"id" bson:"_id" yaml:"id"`
	Name  string `json:"name" bson:"name" yaml:"name"`
	Icon  string `json:"icon" bson:"icon" yaml:"icon"`
	Color string `json:"color" bson:"color" yaml:"color"`
}

// Catalog holds the fixed reference data: issue categories and the known
// users. It is built once at start-up and never mutated afterwards.
type Catalog struct {
	categories     []*Category
	categoriesByID map[string]*Category
	users          []*user.User
	usersByID      map[string]*user.User
}

func New(categories []*Category, users []*user.User) *Catalog {
	c := &Catalog{
		categories:     categories,
		categoriesByID: make(map[string]*Category, len(categories)),
		users:          users,
		usersByID:      make(map[string]*user.User, len(users)),
	}

	for _, cat := range categories {
		c.categoriesByID[cat.ID] = cat
	}

	for _, u := range users {
		c.usersByID[u.ID] = u
	}

	return c
}

func (c *Catalog) Categories() []*Category {
	return c.categories
}

func (c *Catalog) Category(id string) (*Category, bool) {
	cat, ok := c.categoriesByID[id]
	return cat, ok
}

func (c *Catalog) Users() []*user.User {
	return c.users
}

func (c *Catalog) User(id string) (*user.User, bool) {
	u, ok := c.usersByID[id]
	return u, ok
}

// Default returns the built-in campus catalog.
func Default() *Catalog {
	categories := []*Category{
		{ID: "1", Name: "Lubang Jalan", Icon: "AlertTriangle", Color: "bg-red-500"},
		{ID: "2", Name: "Lampu Jalan", Icon: "Lightbulb", Color: "bg-yellow-500"},
		{ID: "3", Name: "Longkang", Icon: "Waves", Color: "bg-blue-500"},
		{ID: "4", Name: "Papan Tanda", Icon: "Sign", Color: "bg-green-500"},
		{ID: "5", Name: "Keselamatan", Icon: "Shield", Color: "bg-purple-500"},
		{ID: "6", Name: "Lain-lain", Icon: "MoreHorizontal", Color: "bg-gray-500"},
	}

	users := []*user.User{
		{
			ID:     "1",
			Name:   "Ahmad Zikri",
			Role:   user.Student,
			Avatar: "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			Joined: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:     "2",
			Name:   "Siti Nurhaliza",
			Role:   user.Staff,
			Avatar: "https://images.pexels.com/photos/1858175/pexels-photo-1858175.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			Joined: time.Date(2023, time.August, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:     "3",
			Name:   "Mohd Fariz",
			Role:   user.Maintenance,
			Avatar: "https://images.pexels.com/photos/1681010/pexels-photo-1681010.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			Joined: time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	return New(categories, users)
}
