package models

import "time"

func (c *Category) Validate() error {
	return validateStruct(c)
}

func (c *Category) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

func (l *Location) Validate() error {
	return validateStruct(l)
}

func (l *Location) BeforeCreate() {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
}
