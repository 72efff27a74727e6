package models

import "time"

// Content lifecycle states. Only active content is eligible for distribution.
const (
	ContentStatusDraft    = "draft"
	ContentStatusActive   = "active"
	ContentStatusArchived = "archived"
)

// Content types stored in content_library.content_type.
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
	ContentTypeMixed = "mixed"
)

// Scheduled post states. The scheduler only ever creates posts in the first
// three; the rest are written by the external publisher via the status endpoint.
const (
	PostStatusDraft           = "draft"
	PostStatusPendingApproval = "pending_approval"
	PostStatusScheduled       = "scheduled"
	PostStatusPublished       = "published"
	PostStatusFailed          = "failed"
	PostStatusCancelled       = "cancelled"
)

type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	BaseContent string    `json:"baseContent"`
	ContentType string    `json:"contentType"`
	Platforms   []string  `json:"platforms"`
	TagIDs      []string  `json:"tagIds"`
	AssetIDs    []string  `json:"assetIds"`
	Hashtags    []string  `json:"hashtags"`
	UsageCount  int       `json:"usageCount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SocialAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Platform  string    `json:"platform"` // raw identifier, e.g. "tiktok-business"
	TagIDs    []string  `json:"tagIds"`
	IsActive  bool      `json:"isActive"`
	Connected bool      `json:"connected"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type ScheduledPost struct {
	ID            string    `json:"id"`
	ContentID     string    `json:"contentId"`
	AccountID     string    `json:"socialAccountId"`
	Platform      string    `json:"platform"` // canonical, never a vendor variant
	Caption       string    `json:"caption"`
	Hashtags      []string  `json:"hashtags"`
	AssetIDs      []string  `json:"assetIds"`
	ScheduledTime time.Time `json:"scheduledTime"`
	Timezone      string    `json:"timezone"`
	Status        string    `json:"status"`
	DeliveryJobID *string   `json:"deliveryJobId,omitempty"`
	LastError     *string   `json:"lastError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
