package content

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

const wordsPerMinute = 200

// PostDoc is a blog post as stored in the blog document.
type PostDoc struct {
	Slug               string                     `json:"slug"`
	CoverImage         CoverImage                 `json:"coverImage"`
	Author             Author                     `json:"author"`
	PublishedAt        string                     `json:"publishedAt"`
	ReadingTimeMinutes *int                       `json:"readingTimeMinutes,omitempty"`
	Tags               []string                   `json:"tags"`
	Translations       map[string]PostTranslation `json:"translations"`
}

// CoverImage has a locale-keyed alt text.
type CoverImage struct {
	Src string            `json:"src"`
	Alt map[string]string `json:"alt"`
}

// Author of a post.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// PostTranslation holds the translated fields of a post.
type PostTranslation struct {
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Description string `json:"description"`
}

// Post is a blog post resolved for one locale.
type Post struct {
	Slug           string
	Locale         i18n.Locale
	Title          string
	Excerpt        string
	Description    string
	Body           template.HTML
	ImageSrc       string
	ImageAlt       string
	Author         Author
	PublishedAt    time.Time
	ReadingMinutes int
	Category       string
	Tags           []string
}

// Translation returns the post fields for locale, falling back to the base
// locale. ok is false when neither exists.
func (p PostDoc) Translation(locale i18n.Locale) (PostTranslation, bool) {
	for _, candidate := range []i18n.Locale{i18n.Normalize(string(locale)), i18n.Base} {
		if tr, ok := p.Translations[string(candidate)]; ok {
			return tr, true
		}
	}
	return PostTranslation{}, false
}

// PostDocs reads the raw blog document.
func (l *Loader) PostDocs() ([]PostDoc, error) {
	raw, err := l.read(Blog)
	if err != nil {
		return nil, err
	}
	var docs []PostDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, l.fail(Blog, fmt.Errorf("content: decode %s: %w", Blog, err))
	}
	return docs, nil
}

// Posts returns every post resolved for locale, newest first. Posts without a
// tag get uncategorized as their category. Posts with no usable translation
// are skipped.
func (l *Loader) Posts(locale i18n.Locale, uncategorized string) ([]Post, error) {
	docs, err := l.PostDocs()
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(docs))
	for _, d := range docs {
		p, ok, err := resolvePost(d, locale, uncategorized)
		if err != nil {
			return nil, l.fail(Blog, err)
		}
		if ok {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts, nil
}

// Post returns the post with slug resolved for locale, or ErrNotFound.
func (l *Loader) Post(slug string, locale i18n.Locale, uncategorized string) (Post, error) {
	docs, err := l.PostDocs()
	if err != nil {
		return Post{}, err
	}
	for _, d := range docs {
		if d.Slug != slug {
			continue
		}
		p, ok, err := resolvePost(d, locale, uncategorized)
		if err != nil {
			return Post{}, l.fail(Blog, err)
		}
		if !ok {
			return Post{}, ErrNotFound
		}
		return p, nil
	}
	return Post{}, ErrNotFound
}

func resolvePost(d PostDoc, locale i18n.Locale, uncategorized string) (Post, bool, error) {
	locale = i18n.Normalize(string(locale))
	tr, ok := d.Translation(locale)
	if !ok {
		return Post{}, false, nil
	}
	body, err := RenderMarkdown(tr.Description)
	if err != nil {
		return Post{}, false, fmt.Errorf("content: render post %s: %w", d.Slug, err)
	}
	alt := d.CoverImage.Alt[string(locale)]
	if alt == "" {
		alt = tr.Title
	}
	category := uncategorized
	if len(d.Tags) > 0 && strings.TrimSpace(d.Tags[0]) != "" {
		category = d.Tags[0]
	}
	minutes := 0
	if d.ReadingTimeMinutes != nil {
		minutes = *d.ReadingTimeMinutes
	} else {
		minutes = EstimateReadingTime(tr.Excerpt + "\n\n" + PlainText(string(body)))
	}
	return Post{
		Slug:           d.Slug,
		Locale:         locale,
		Title:          tr.Title,
		Excerpt:        tr.Excerpt,
		Description:    tr.Description,
		Body:           body,
		ImageSrc:       d.CoverImage.Src,
		ImageAlt:       alt,
		Author:         d.Author,
		PublishedAt:    parseDate(d.PublishedAt),
		ReadingMinutes: minutes,
		Category:       category,
		Tags:           append([]string(nil), d.Tags...),
	}, true, nil
}

// EstimateReadingTime returns whole minutes at 200 words per minute, at least one.
func EstimateReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Categories returns the distinct post categories in first-seen order.
func Categories(posts []Post) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FilterPosts keeps posts whose title, excerpt, author or category contains
// query (case-insensitive) and whose category equals category. Empty
// arguments do not filter.
func FilterPosts(posts []Post, query, category string) []Post {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" {
			hay := strings.ToLower(strings.Join([]string{p.Title, p.Excerpt, p.Author.Name, p.Category}, " "))
			if !strings.Contains(hay, query) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mailtoEscape(s string) string {
	return url.PathEscape(s)
}
