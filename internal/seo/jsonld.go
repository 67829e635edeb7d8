package seo

import (
	"encoding/json"
	"html/template"
	"time"

	"github.com/foadjalali/tcmindai/internal/content"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script renders v as a JSON-LD script body for templates.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a WebSite schema. searchURL, when set, is the blog search
// endpoint and becomes a SearchAction.
func WebSite(name, url, inLanguage, searchURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if inLanguage != "" {
		m["inLanguage"] = inLanguage
	}
	if searchURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// Article returns a BlogPosting schema for a post.
func Article(p content.Post, url, imageURL string) map[string]any {
	m := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "BlogPosting",
		"headline":   p.Title,
		"inLanguage": p.Locale.Tag().String(),
	}
	if p.Excerpt != "" {
		m["description"] = p.Excerpt
	}
	if url != "" {
		m["url"] = url
		m["mainEntityOfPage"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if p.Author.Name != "" {
		m["author"] = map[string]any{"@type": "Person", "name": p.Author.Name}
	}
	if !p.PublishedAt.IsZero() {
		m["datePublished"] = p.PublishedAt.Format(time.RFC3339)
	}
	if len(p.Tags) > 0 {
		m["keywords"] = p.Tags
	}
	return m
}

// FAQPage returns a FAQPage schema for the given questions.
func FAQPage(cats []content.FAQCategory) map[string]any {
	var qs []map[string]any
	for _, c := range cats {
		for _, it := range c.Items {
			qs = append(qs, map[string]any{
				"@type": "Question",
				"name":  it.Q,
				"acceptedAnswer": map[string]any{
					"@type": "Answer",
					"text":  it.A,
				},
			})
		}
	}
	return map[string]any{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": qs,
	}
}
