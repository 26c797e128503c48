package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeforeCreate hooks assign UUIDs client-side so inserts behave the same
// on Postgres and the sqlite databases used in tests.

func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (b *Business) BeforeCreate(*gorm.DB) error     { ensureID(&b.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error     { ensureID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { ensureID(&i.ID); return nil }
func (t *TrackingLink) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
func (c *CheckoutLink) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }
func (n *Notification) BeforeCreate(*gorm.DB) error { ensureID(&n.ID); return nil }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
