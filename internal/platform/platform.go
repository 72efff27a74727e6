// Package platform defines the closed set of publishing platforms the
// scheduler knows about. Accounts store a raw vendor identifier (a Variant);
// scheduled posts always carry the canonical Platform it normalizes to.
package platform

import (
	"strings"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
)

// Platform is the canonical platform tag written to scheduled_posts.platform.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	TikTok    Platform = "tiktok"
)

// Variant is a raw account platform identifier. Several vendor-specific
// variants collapse to one canonical Platform (both TikTok variants → tiktok).
type Variant string

const (
	VariantFacebook       Variant = "facebook"
	VariantInstagram      Variant = "instagram"
	VariantTwitter        Variant = "twitter"
	VariantTikTokBusiness Variant = "tiktok-business"
	VariantTikTokShop     Variant = "tiktok-shop"
)

// TargetAll is the request value meaning "no platform restriction".
const TargetAll = "all"

// productKeywords mark content as product-intent for the tiktok-shop rules.
var productKeywords = []string{"product", "shop", "sale", "discount", "buy"}

// ParseVariant validates a raw platform identifier against the closed set.
// Accounts with an unknown platform never become rotation-eligible.
func ParseVariant(raw string) (Variant, bool) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(raw))); v {
	case VariantFacebook, VariantInstagram, VariantTwitter, VariantTikTokBusiness, VariantTikTokShop:
		return v, true
	default:
		return "", false
	}
}

// Canonical maps a variant to the platform tag stored on scheduled posts.
func (v Variant) Canonical() Platform {
	switch v {
	case VariantFacebook:
		return Facebook
	case VariantInstagram:
		return Instagram
	case VariantTwitter:
		return Twitter
	case VariantTikTokBusiness, VariantTikTokShop:
		return TikTok
	}
	// Unreachable for variants produced by ParseVariant.
	return Facebook
}

// Accepts reports whether content is publishable on this variant.
//
// Rules are evaluated on the raw variant, not the canonical platform, because
// the two TikTok variants have different content requirements:
//   - tiktok-business takes video only
//   - tiktok-shop takes video, product-intent content, or content with assets
//   - instagram rejects bare text (text with no attached assets)
//   - facebook and twitter take everything
func (v Variant) Accepts(c models.ContentItem) bool {
	switch v {
	case VariantTikTokBusiness:
		return c.ContentType == models.ContentTypeVideo
	case VariantTikTokShop:
		return c.ContentType == models.ContentTypeVideo || hasProductIntent(c) || len(c.AssetIDs) > 0
	case VariantInstagram:
		return c.ContentType != models.ContentTypeText || len(c.AssetIDs) > 0
	case VariantFacebook, VariantTwitter:
		return true
	}
	return false
}

func hasProductIntent(c models.ContentItem) bool {
	for _, tag := range c.TagIDs {
		lower := strings.ToLower(tag)
		for _, kw := range productKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	title := strings.ToLower(c.Title)
	body := strings.ToLower(c.BaseContent)
	for _, kw := range productKeywords {
		if strings.Contains(title, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}
