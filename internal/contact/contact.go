package contact

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

// SubjectOther marks a free-form subject entered by the visitor.
const SubjectOther = "other"

// Subjects are the predefined topics of the contact form.
var Subjects = []string{
	"AI Consulting",
	"Custom Software",
	"Infrastructure & DevOps",
	"Security & Compliance",
}

// Submission is a message sent through the contact form.
type Submission struct {
	Locale        i18n.Locale `json:"locale"`
	AsCompany     bool        `json:"as_company"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone,omitempty"`
	Subject       string      `json:"subject"`
	CustomSubject string      `json:"custom_subject,omitempty"`
	Company       Company     `json:"company"`
	Message       string      `json:"message"`
}

// Company details, only meaningful when AsCompany is set.
type Company struct {
	Name    string `json:"company_name,omitempty"`
	Website string `json:"company_website,omitempty"`
	Size    string `json:"company_size,omitempty"`
}

// ParseSubmission reads the contact form fields.
func ParseSubmission(form url.Values, l i18n.Locale) Submission {
	s := Submission{
		Locale:        l,
		AsCompany:     form.Get("as") == "company",
		Name:          field(form, "name"),
		Email:         field(form, "email"),
		Phone:         field(form, "phone"),
		Subject:       field(form, "subject"),
		CustomSubject: field(form, "custom_subject"),
		Message:       field(form, "message"),
	}
	if s.Subject == "" {
		s.Subject = Subjects[0]
	}
	if s.AsCompany {
		s.Company = Company{
			Name:    field(form, "company_name"),
			Website: field(form, "company_website"),
			Size:    field(form, "company_size"),
		}
	}
	return s
}

// ResolvedSubject is the subject as it should be filed.
func (s Submission) ResolvedSubject() string {
	if s.Subject == SubjectOther {
		return s.CustomSubject
	}
	return s.Subject
}

// Validate checks the submission. Company name is required when contacting as
// a company; the custom subject is required when the subject is "other".
func (s Submission) Validate() error {
	subjects := make([]any, 0, len(Subjects)+1)
	for _, sub := range Subjects {
		subjects = append(subjects, sub)
	}
	subjects = append(subjects, SubjectOther)

	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&s.Email, validation.Required, is.EmailFormat),
		validation.Field(&s.Phone, validation.Length(0, 40)),
		validation.Field(&s.Subject, validation.Required, validation.In(subjects...)),
		validation.Field(&s.CustomSubject, validation.When(s.Subject == SubjectOther, validation.Required, validation.Length(1, 160))),
		validation.Field(&s.Message, validation.Required, validation.Length(1, 5000)),
	)
	errs := validation.Errors{}
	if err != nil {
		var ve validation.Errors
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve {
			errs[k] = v
		}
	}
	if s.AsCompany {
		if cerr := validation.ValidateStruct(&s.Company,
			validation.Field(&s.Company.Name, validation.Required, validation.Length(1, 160)),
			validation.Field(&s.Company.Website, is.URL),
			validation.Field(&s.Company.Size, validation.Length(0, 40)),
		); cerr != nil {
			var ve validation.Errors
			if !errors.As(cerr, &ve) {
				return cerr
			}
			for k, v := range ve {
				errs[k] = v
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Question is sent from the FAQ "ask a question" form.
type Question struct {
	Locale   i18n.Locale `json:"locale"`
	Name     string      `json:"name,omitempty"`
	Email    string      `json:"email"`
	Category string      `json:"category,omitempty"`
	Question string      `json:"question"`
	Consent  bool        `json:"consent"`
	// Trap is a hidden field real visitors never fill in.
	Trap string `json:"-"`
}

// ParseQuestion reads the ask-question form fields.
func ParseQuestion(form url.Values, l i18n.Locale) Question {
	return Question{
		Locale:   l,
		Name:     field(form, "name"),
		Email:    field(form, "email"),
		Category: field(form, "category"),
		Question: field(form, "question"),
		Consent:  form.Get("consent") == "on",
		Trap:     form.Get("company"),
	}
}

// IsSpam reports whether the hidden trap field was filled in.
func (q Question) IsSpam() bool { return q.Trap != "" }

// Validate checks the question. categories, when non-empty, restricts the
// category to the known FAQ headings.
func (q Question) Validate(categories []string) error {
	allowed := make([]any, 0, len(categories))
	for _, c := range categories {
		allowed = append(allowed, c)
	}
	return validation.ValidateStruct(&q,
		validation.Field(&q.Name, validation.Length(0, 120)),
		validation.Field(&q.Email, validation.Required, is.EmailFormat),
		validation.Field(&q.Category, validation.When(len(allowed) > 0, validation.In(allowed...))),
		validation.Field(&q.Question, validation.Required, validation.Length(5, 2000)),
	)
}

// FieldErrors flattens a validation error into field → message code, suitable
// for looking up translated messages. Non-validation errors yield nil.
func FieldErrors(err error) map[string]string {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for field, fe := range ve {
		code := "validation_invalid"
		var coded validation.Error
		if errors.As(fe, &coded) {
			code = coded.Code()
		}
		out[field] = code
	}
	return out
}

func field(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}
