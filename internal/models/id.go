package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Primary keys are generated application-side so the same schema migrates on
// postgres and on the sqlite driver the tests run against.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (t *RefreshToken) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
func (p *Profile) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (a *Apartment) BeforeCreate(*gorm.DB) error    { ensureID(&a.ID); return nil }
func (i *Issue) BeforeCreate(*gorm.DB) error        { ensureID(&i.ID); return nil }
func (p *Post) BeforeCreate(*gorm.DB) error         { ensureID(&p.ID); return nil }
func (t *Tag) BeforeCreate(*gorm.DB) error          { ensureID(&t.ID); return nil }
func (r *Reply) BeforeCreate(*gorm.DB) error        { ensureID(&r.ID); return nil }
func (b *PostBookmark) BeforeCreate(*gorm.DB) error { ensureID(&b.ID); return nil }
func (v *PostVote) BeforeCreate(*gorm.DB) error     { ensureID(&v.ID); return nil }
func (r *Rating) BeforeCreate(*gorm.DB) error       { ensureID(&r.ID); return nil }
func (r *Report) BeforeCreate(*gorm.DB) error       { ensureID(&r.ID); return nil }
func (v *ContentView) BeforeCreate(*gorm.DB) error  { ensureID(&v.ID); return nil }
func (l *SystemLog) BeforeCreate(*gorm.DB) error    { ensureID(&l.ID); return nil }
