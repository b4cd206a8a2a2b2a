package entity

import (
	"database/sql"

	"github.com/asolution/raffle/pkg/enum"
)

type EntrySource string

var (
	PublicSource = enum.New(EntrySource("public"))
	AdminSource  = enum.New(EntrySource("admin"))
	BulkSource   = enum.New(EntrySource("bulk"))
	CookieSource = enum.New(EntrySource("cookie"))
)

// Gated reports whether entries from this source are only accepted while the
// raffle is active.
func (s EntrySource) Gated() bool {
	return s == PublicSource || s == CookieSource
}

// RequiresEmail reports whether the contact identifier of this source must be
// an email address. Cookie entries carry an opaque token instead.
func (s EntrySource) RequiresEmail() bool {
	return s != CookieSource
}

type Entry struct {
	Base

	Name              string `gorm:"size:255;not null"`
	ContactIdentifier string `gorm:"size:255;not null;uniqueIndex"`
	Phone             sql.NullString
	Source            EntrySource `gorm:"size:16;not null"`

	IPAddress sql.NullString `gorm:"size:64"`
	UserAgent sql.NullString `gorm:"size:512"`
}
