// Package business implements the "Create Your Own Business" wizard: a
// student profile, idea generation, naming, advertisement design and the
// final certificate.
//
// The wizard step is never stored. It is derived from which fields of the
// Draft are filled, and every mutation clears the fields of later steps so a
// draft can never skip ahead or show output from an earlier choice.
package business

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Steps
// ═══════════════════════════════════════════════════════════════════════════

// Step is a wizard state.
type Step string

const (
	StepProfile     Step = "profile"
	StepIdea        Step = "idea"
	StepName        Step = "name"
	StepAdDesign    Step = "ad_design"
	StepCertificate Step = "certificate"
)

// Order returns the position of s in the wizard, starting at 0.
func (s Step) Order() int {
	switch s {
	case StepIdea:
		return 1
	case StepName:
		return 2
	case StepAdDesign:
		return 3
	case StepCertificate:
		return 4
	default:
		return 0
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Draft
// ═══════════════════════════════════════════════════════════════════════════

// AdCopy is suggested advertisement text.
type AdCopy struct {
	Tagline      string `json:"tagline"`
	Description  string `json:"description"`
	CallToAction string `json:"call_to_action"`
	Source       string `json:"source"`
}

// Advertisement is the frozen result of the ad design step.
type Advertisement struct {
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
	Primary      Color  `json:"primary"`
	Secondary    Color  `json:"secondary"`
	Symbol       Symbol `json:"symbol"`
	Tagline      string `json:"tagline"`
	Description  string `json:"description,omitempty"`
	Contact      string `json:"contact"`
}

// Draft is the in-progress business of one student.
type Draft struct {
	StudentName string   `json:"student_name,omitempty"`
	City        string   `json:"city,omitempty"`
	Interests   []string `json:"interests,omitempty"`

	Ideas        *Ideas           `json:"ideas,omitempty"`
	SelectedIdea string           `json:"selected_idea,omitempty"`
	Timeframe    shared.Timeframe `json:"timeframe,omitempty"`

	Names        []string `json:"names,omitempty"`
	NamesFor     string   `json:"names_for,omitempty"`
	SelectedName string   `json:"selected_name,omitempty"`

	Suggestion *AdCopy        `json:"suggestion,omitempty"`
	Ad         *Advertisement `json:"ad,omitempty"`
}

// Step derives the current wizard step from the draft's contents.
func (d *Draft) Step() Step {
	switch {
	case d.profileError() != nil:
		return StepProfile
	case d.SelectedIdea == "":
		return StepIdea
	case d.SelectedName == "":
		return StepName
	case d.Ad == nil:
		return StepAdDesign
	default:
		return StepCertificate
	}
}

// SetProfile records who the student is. Any change discards generated
// ideas and everything after them. It returns whether the profile changed.
func (d *Draft) SetProfile(name, city string, interests []string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, shared.Incomplete("wizard", "SetProfile", "Please enter your name first!")
	}
	if !isCity(city) {
		return false, shared.Incomplete("wizard", "SetProfile", "Choose where your business will be located!")
	}

	clean := make([]string, 0, len(interests))
	seen := make(map[string]bool, len(interests))
	for _, i := range interests {
		if !isInterest(i) {
			return false, shared.NewDomainError("wizard", "SetProfile", shared.ErrInvalidInput, "unknown interest")
		}
		if !seen[i] {
			seen[i] = true
			clean = append(clean, i)
		}
	}
	if len(clean) < 2 {
		return false, shared.Incomplete("wizard", "SetProfile", "Choose at least 2 things you like to do!")
	}

	if name == d.StudentName && city == d.City && equalStrings(clean, d.Interests) {
		return false, nil
	}
	d.StudentName, d.City, d.Interests = name, city, clean
	d.clearIdeas()
	return true, nil
}

// GenerateIdeas builds the idea lists for the current profile. extra holds
// additional service-generated ideas; it may be empty.
func (d *Draft) GenerateIdeas(rng Rand, extra Ideas) error {
	if err := d.profileError(); err != nil {
		return err
	}
	ideas := BuildIdeas(d.City, d.Interests, extra, rng)
	d.clearIdeas()
	d.Ideas = &ideas
	return nil
}

// SelectIdea picks one of the generated ideas. Names generated for any
// earlier idea are discarded.
func (d *Draft) SelectIdea(idea string, tf shared.Timeframe) error {
	if d.Ideas == nil {
		return shared.Incomplete("wizard", "SelectIdea", "Generate some business ideas first!")
	}
	if !tf.IsValid() || !d.Ideas.Contains(idea, tf) {
		return shared.NewDomainError("wizard", "SelectIdea", shared.ErrInvalidInput, "that idea is not on your list")
	}
	d.clearSelection()
	d.SelectedIdea, d.Timeframe = idea, tf
	return nil
}

// SetNames stores generated names. forIdea is the idea the names were
// generated for; if the student picked another idea meanwhile the names are
// rejected with ErrStaleGeneration.
func (d *Draft) SetNames(names []string, forIdea string) error {
	if d.SelectedIdea == "" || forIdea != d.SelectedIdea {
		return shared.ErrStaleGeneration
	}
	if len(names) == 0 {
		return shared.Incomplete("wizard", "SetNames", "We couldn't think of any names. Please try again!")
	}
	d.clearNames()
	d.Names = append([]string(nil), names...)
	d.NamesFor = forIdea
	return nil
}

// SelectName picks one of the generated names.
func (d *Draft) SelectName(name string) error {
	if len(d.Names) == 0 {
		return shared.Incomplete("wizard", "SelectName", "Generate some business names first!")
	}
	found := false
	for _, n := range d.Names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return shared.NewDomainError("wizard", "SelectName", shared.ErrInvalidInput, "that name is not on your list")
	}
	d.SelectedName = name
	d.Suggestion = nil
	d.Ad = nil
	return nil
}

// SetSuggestion stores suggested ad copy generated for forName.
func (d *Draft) SetSuggestion(suggestion AdCopy, forName string) error {
	if d.SelectedName == "" || forName != d.SelectedName {
		return shared.ErrStaleGeneration
	}
	d.Suggestion = &suggestion
	return nil
}

// AdInput is what the student chose in the ad designer.
type AdInput struct {
	Colors  [2]string `json:"colors"`
	Symbol  string    `json:"symbol"`
	Tagline string    `json:"tagline"`
	Contact string    `json:"contact"`
}

// PreviewAd validates the design and freezes it into the draft.
func (d *Draft) PreviewAd(in AdInput) error {
	if d.SelectedName == "" {
		return shared.Incomplete("wizard", "PreviewAd", "Pick a business name first!")
	}

	var colors [2]Color
	for i, v := range in.Colors {
		c, ok := FindColor(v)
		if !ok {
			return shared.NewDomainError("wizard", "PreviewAd", shared.ErrInvalidInput, "unknown color")
		}
		colors[i] = c
	}
	sym, ok := FindSymbol(in.Symbol)
	if !ok {
		return shared.NewDomainError("wizard", "PreviewAd", shared.ErrInvalidInput, "unknown symbol")
	}

	tagline := strings.TrimSpace(in.Tagline)
	if tagline == "" {
		return shared.Incomplete("wizard", "PreviewAd", "Write a tagline for your business!")
	}
	contact := strings.TrimSpace(in.Contact)
	if contact == "" {
		return shared.Incomplete("wizard", "PreviewAd", "Tell people how they can contact you!")
	}

	ad := Advertisement{
		BusinessName: d.SelectedName,
		BusinessType: d.SelectedIdea,
		Primary:      colors[0],
		Secondary:    colors[1],
		Symbol:       sym,
		Tagline:      tagline,
		Contact:      contact,
	}
	if d.Suggestion != nil {
		ad.Description = d.Suggestion.Description
	}
	d.Ad = &ad
	return nil
}

// Restart throws the draft away. Rewards already earned are kept elsewhere.
func (d *Draft) Restart() {
	*d = Draft{}
}

// SuggestedTagline is the tagline prefilled in the ad designer.
func (d *Draft) SuggestedTagline() string {
	if d.Suggestion != nil && d.Suggestion.Tagline != "" {
		return d.Suggestion.Tagline
	}
	return "The best service in town!"
}

// SuggestedContact is the contact line prefilled in the ad designer.
func (d *Draft) SuggestedContact() string {
	return fmt.Sprintf("Ask for %s", d.StudentName)
}

func (d *Draft) profileError() error {
	switch {
	case d.StudentName == "":
		return shared.Incomplete("wizard", "Profile", "Please enter your name first!")
	case !isCity(d.City):
		return shared.Incomplete("wizard", "Profile", "Choose where your business will be located!")
	case len(d.Interests) < 2:
		return shared.Incomplete("wizard", "Profile", "Choose at least 2 things you like to do!")
	}
	return nil
}

func (d *Draft) clearIdeas() {
	d.Ideas = nil
	d.clearSelection()
}

func (d *Draft) clearSelection() {
	d.SelectedIdea = ""
	d.Timeframe = ""
	d.clearNames()
}

func (d *Draft) clearNames() {
	d.Names = nil
	d.NamesFor = ""
	d.SelectedName = ""
	d.Suggestion = nil
	d.Ad = nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ═══════════════════════════════════════════════════════════════════════════
// Certificate
// ═══════════════════════════════════════════════════════════════════════════

// CertificateIssuer signs every certificate.
const CertificateIssuer = "Mr. Stumberg's 1st Grade Class"

// Certificate is the completion certificate of the wizard.
type Certificate struct {
	Title        string           `json:"title"`
	StudentName  string           `json:"student_name"`
	BusinessName string           `json:"business_name"`
	Idea         string           `json:"idea"`
	Timeframe    shared.Timeframe `json:"timeframe"`
	City         string           `json:"city"`
	Ad           Advertisement    `json:"ad"`
	Issuer       string           `json:"issuer"`
	Date         string           `json:"date"`
	Slug         string           `json:"slug"`
}

// Certificate renders the certificate. now should already be in the
// display timezone.
func (d *Draft) Certificate(now time.Time) (Certificate, error) {
	if d.Step() != StepCertificate {
		return Certificate{}, shared.ErrCertificateLocked
	}
	return Certificate{
		Title:        "Certificate of Business Creation",
		StudentName:  d.StudentName,
		BusinessName: d.SelectedName,
		Idea:         d.SelectedIdea,
		Timeframe:    d.Timeframe,
		City:         d.City,
		Ad:           *d.Ad,
		Issuer:       CertificateIssuer,
		Date:         now.Format(timeutil.CertificateLayout),
		Slug:         slug.Make(d.SelectedName),
	}, nil
}
