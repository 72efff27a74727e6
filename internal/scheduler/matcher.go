package scheduler

import (
	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/platform"
)

// FilterContentByTags keeps content whose tagIds intersect selected. With no
// selected tags everything passes. When tags are specified, untagged content is
// excluded: selection is an allow-list, not a don't-care.
func FilterContentByTags(pool []models.ContentItem, selected []string) []models.ContentItem {
	if len(selected) == 0 {
		return pool
	}
	out := make([]models.ContentItem, 0, len(pool))
	for _, c := range pool {
		if len(c.TagIDs) == 0 {
			continue
		}
		if tagsIntersect(c.TagIDs, selected) {
			out = append(out, c)
		}
	}
	return out
}

// FilterContentByTypes keeps content whose contentType is in types. An empty
// types list passes everything.
func FilterContentByTypes(pool []models.ContentItem, types []string) []models.ContentItem {
	if len(types) == 0 {
		return pool
	}
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	out := make([]models.ContentItem, 0, len(pool))
	for _, c := range pool {
		if _, ok := allowed[c.ContentType]; ok {
			out = append(out, c)
		}
	}
	return out
}

// FilterContentByPlatform applies the per-platform compatibility rules for one
// target variant. Used globally when the request names a platform, and again
// per-account by the picker when distributing to "all".
func FilterContentByPlatform(pool []models.ContentItem, v platform.Variant) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(pool))
	for _, c := range pool {
		if v.Accepts(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterAccountsByTarget keeps accounts matching the raw target platform, or
// every account with a recognized platform when the target is "all". Accounts
// whose platform is outside the closed set are never eligible.
func FilterAccountsByTarget(accounts []models.SocialAccount, target string) []models.SocialAccount {
	out := make([]models.SocialAccount, 0, len(accounts))
	for _, a := range accounts {
		v, ok := platform.ParseVariant(a.Platform)
		if !ok {
			continue
		}
		if target == platform.TargetAll || string(v) == target {
			out = append(out, a)
		}
	}
	return out
}

// FilterActiveConnected keeps accounts that are both active and connected.
func FilterActiveConnected(accounts []models.SocialAccount) []models.SocialAccount {
	out := make([]models.SocialAccount, 0, len(accounts))
	for _, a := range accounts {
		if a.IsActive && a.Connected {
			out = append(out, a)
		}
	}
	return out
}

func tagsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
