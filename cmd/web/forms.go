package main

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/config"
	"github.com/foadjalali/tcmindai/internal/contact"
	"github.com/foadjalali/tcmindai/internal/content"
	"github.com/foadjalali/tcmindai/internal/handlers"
	"github.com/foadjalali/tcmindai/internal/nav"
	"github.com/foadjalali/tcmindai/internal/observability"
	"github.com/foadjalali/tcmindai/internal/seo"
)

// formView carries submitted values and field error codes back to a form.
type formView struct {
	Values url.Values
	Errors map[string]string
	// Sent is set after a successful submission redirect.
	Sent bool
}

func (f formView) Get(key string) string { return f.Values.Get(key) }

type contactView struct {
	formView
	Subjects     []string
	Other        string
	CompanySizes []string
	Info         contactInfo
}

// contactInfo is the details block and map shown beside the form.
type contactInfo struct {
	Email     string
	EmailHref string
	Phone     string
	PhoneHref template.URL
	MapURL    string
	Social    []handlers.Link
}

func newContactInfo(cfg config.ContactConfig) contactInfo {
	info := contactInfo{Email: cfg.Email, Phone: cfg.Phone, MapURL: cfg.MapEmbedURL}
	if cfg.Email != "" {
		info.EmailHref = "mailto:" + cfg.Email
	}
	if tel := telDigits(cfg.Phone); tel != "" {
		info.PhoneHref = template.URL("tel:" + tel)
	}
	for _, s := range cfg.Social {
		info.Social = append(info.Social, handlers.Link{Label: s.Name, Href: s.URL})
	}
	return info
}

// telDigits keeps the digits of a phone number and a leading plus.
func telDigits(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if strings.Trim(b.String(), "+") == "" {
		return ""
	}
	return b.String()
}

var companySizes = []string{"", "1-10", "11-50", "51-200", "201-1000", "1000+"}

func (a *app) contact(w http.ResponseWriter, r *http.Request) {
	a.renderContact(w, r, http.StatusOK, formView{Values: url.Values{}, Sent: r.URL.Query().Get("sent") == "1"})
}

func (a *app) submitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	l := a.basePage(r).Lang
	sub := contact.ParseSubmission(r.PostForm, l)
	if err := sub.Validate(); err != nil {
		a.renderContact(w, r, http.StatusUnprocessableEntity, formView{Values: r.PostForm, Errors: contact.FieldErrors(err)})
		return
	}
	if _, err := a.sink.Submit(r.Context(), sub); err != nil {
		a.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, nav.Href(l, "/contact")+"?sent=1", http.StatusSeeOther)
}

func (a *app) renderContact(w http.ResponseWriter, r *http.Request, status int, form formView) {
	data, ok := a.page(w, r, seo.PageContact)
	if !ok {
		return
	}
	data.Hero = handlers.NewHero(a.bundle, data.Lang, "contact", "")
	data.Page = contactView{
		formView:     form,
		Subjects:     contact.Subjects,
		Other:        contact.SubjectOther,
		CompanySizes: companySizes,
		Info:         newContactInfo(a.cfg.Contact),
	}
	a.views.render(w, r, "contact", status, data)
}

type faqView struct {
	Categories []content.FAQCategory
	Ask        formView
}

func (a *app) faq(w http.ResponseWriter, r *http.Request) {
	a.renderFAQ(w, r, http.StatusOK, formView{Values: url.Values{}, Sent: r.URL.Query().Get("asked") == "1"})
}

func (a *app) askQuestion(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	l := a.basePage(r).Lang
	done := nav.Href(l, "/faq") + "?asked=1#ask"
	q := contact.ParseQuestion(r.PostForm, l)
	if q.IsSpam() {
		observability.FromContext(r.Context()).Info("faq question dropped", zap.String("reason", "trap field"))
		http.Redirect(w, r, done, http.StatusSeeOther)
		return
	}
	cats, err := a.content.FAQs(l)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if err := q.Validate(content.CategoryNames(cats)); err != nil {
		a.renderFAQ(w, r, http.StatusUnprocessableEntity, formView{Values: r.PostForm, Errors: contact.FieldErrors(err)})
		return
	}
	if _, err := a.sink.Ask(r.Context(), q); err != nil {
		a.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, done, http.StatusSeeOther)
}

func (a *app) renderFAQ(w http.ResponseWriter, r *http.Request, status int, form formView) {
	data, ok := a.page(w, r, seo.PageFAQ)
	if !ok {
		return
	}
	cats, err := a.content.FAQs(data.Lang)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if len(cats) > 0 {
		data.JSONLD = append(data.JSONLD, seo.Script(seo.FAQPage(cats)))
	}
	data.Hero = handlers.NewHero(a.bundle, data.Lang, "faq", "")
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "faq", "/contact", "/about")
	data.Page = faqView{Categories: cats, Ask: form}
	a.views.render(w, r, "faq", status, data)
}
