package blogapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Article is a blog post. Public endpoints only ever see published articles;
// the admin surface sees everything.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:art"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Summary       string     `bun:"summary" json:"summary,omitempty"`
	Content       string     `bun:"content" json:"content,omitempty"`
	ImageURL      string     `bun:"image_url" json:"image_url,omitempty"`
	Published     bool       `bun:"is_published" json:"is_published"`
	Featured      bool       `bun:"is_featured" json:"is_featured"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Event is a society event, past or upcoming.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:evt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	ImageURL      string     `bun:"image_url" json:"image_url,omitempty"`
	EventDate     time.Time  `bun:"event_date,notnull" json:"event_date"`
	Location      string     `bun:"location" json:"location,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsPast reports whether the event date has already gone by.
func (e *Event) IsPast(now time.Time) bool {
	return e.EventDate.Before(now.Truncate(24 * time.Hour))
}

// Member is a committee member shown on the public site.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:mbr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Position      string     `bun:"position,notnull" json:"position,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	ImageURL      string     `bun:"image_url" json:"image_url,omitempty"`
	Active        bool       `bun:"is_active" json:"is_active"`
	JoinedAt      *time.Time `bun:"joined_at,nullzero,default:current_timestamp" json:"joined_at,omitempty"`
}

// NewsletterSubscriber is a mailing list entry. A subscription starts
// unverified; the verification code is mailed out and rows that never verify
// are swept by the cleanup job.
type NewsletterSubscriber struct {
	bun.BaseModel    `bun:"table:newsletter_subscribers,alias:sub"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email            string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Active           bool       `bun:"is_active" json:"is_active"`
	Verified         bool       `bun:"is_verified" json:"is_verified"`
	VerificationCode string     `bun:"verification_code" json:"-"`
	SubscribedAt     *time.Time `bun:"subscribed_at,nullzero,default:current_timestamp" json:"subscribed_at,omitempty"`
	VerifiedAt       *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
}
