package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Occupation string

const (
	OccupationMason       Occupation = "mason"
	OccupationCarpenter   Occupation = "carpenter"
	OccupationPlumber     Occupation = "plumber"
	OccupationRoofer      Occupation = "roofer"
	OccupationPainter     Occupation = "painter"
	OccupationElectrician Occupation = "electrician"
	OccupationHVAC        Occupation = "hvac"
	OccupationTenant      Occupation = "tenant"
)

// IsServiceProvider reports whether the occupation is a rateable trade.
func (o Occupation) IsServiceProvider() bool {
	switch o {
	case OccupationMason, OccupationCarpenter, OccupationPlumber, OccupationRoofer,
		OccupationPainter, OccupationElectrician, OccupationHVAC:
		return true
	}
	return false
}

// Standing is the moderation state derived from the accumulated report count.
type Standing string

const (
	StandingGood   Standing = "good_standing"
	StandingWarned Standing = "warned"
	StandingBanned Standing = "banned"
)

// StandingForCount derives the moderation standing from a report count.
func StandingForCount(count int) Standing {
	switch {
	case count >= 5:
		return StandingBanned
	case count >= 1:
		return StandingWarned
	default:
		return StandingGood
	}
}

// Profile holds the extended per-user attributes, including the moderation
// counters. One profile exists per user, created in the registration
// transaction.
type Profile struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Gender          Gender     `gorm:"size:10;default:'other'" json:"gender"`
	Bio             string     `gorm:"type:text" json:"bio"`
	Occupation      Occupation `gorm:"size:20;default:'tenant';index" json:"occupation"`
	PhoneNumber     string     `gorm:"size:20" json:"phone_number"`
	CountryOfOrigin string     `gorm:"size:2;default:'IN'" json:"country_of_origin"`
	CityOfOrigin    string     `gorm:"size:180" json:"city_of_origin"`
	Avatar          string     `gorm:"size:500" json:"avatar"`
	ReportCount     int        `gorm:"not null;default:0" json:"report_count"`
	Reputation      int        `gorm:"not null;default:100" json:"reputation"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	User            User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeSave re-derives reputation from the report count. Reputation is never
// written independently; every save path goes through this hook.
func (p *Profile) BeforeSave(_ *gorm.DB) error {
	p.Reputation = ComputeReputation(p.ReportCount)
	return nil
}

// ComputeReputation maps a report count to a score in [0, 100].
func ComputeReputation(reportCount int) int {
	rep := 100 - reportCount*20
	if rep < 0 {
		rep = 0
	}
	return rep
}

func (p *Profile) IsBanned() bool {
	return p.ReportCount >= 5
}

func (p *Profile) Standing() Standing {
	return StandingForCount(p.ReportCount)
}
