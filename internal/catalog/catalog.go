// Package catalog holds the closed set of UI component types the mapper can
// emit, their placement sections and the illustrative payloads served by the
// components listing.
package catalog

import "strings"

// ComponentType identifies one kind of UI element, e.g. "ui.button".
type ComponentType string

const (
	Hero            ComponentType = "ui.hero"
	Navbar          ComponentType = "ui.navbar"
	Search          ComponentType = "ui.search"
	Countdown       ComponentType = "ui.countdown"
	Footer          ComponentType = "ui.footer"
	Contacts        ComponentType = "ui.contacts"
	SocialLinks     ComponentType = "ui.socialLinks"
	ProductGrid     ComponentType = "ui.productGrid"
	Filters         ComponentType = "ui.filters"
	Cart            ComponentType = "ui.cart"
	Cards           ComponentType = "ui.cards"
	SectionBlock    ComponentType = "ui.section"
	Heading         ComponentType = "ui.heading"
	Text            ComponentType = "ui.text"
	Button          ComponentType = "ui.button"
	Form            ComponentType = "ui.form"
	CTA             ComponentType = "ui.cta"
	ProductCard     ComponentType = "ui.productCard"
	Container       ComponentType = "ui.container"
	ServicesGrid    ComponentType = "ui.servicesGrid"
	DoctorsList     ComponentType = "ui.doctorsList"
	AppointmentForm ComponentType = "ui.appointmentForm"
	CourseList      ComponentType = "ui.courseList"
	FeaturesList    ComponentType = "ui.featuresList"
	JobList         ComponentType = "ui.jobList"
	Schedule        ComponentType = "ui.schedule"
	Speakers        ComponentType = "ui.speakers"
	Tickets         ComponentType = "ui.tickets"
	Gallery         ComponentType = "ui.gallery"
	Calculator      ComponentType = "ui.calculator"
	Testimonials    ComponentType = "ui.testimonials"
)

func (t ComponentType) String() string { return string(t) }

// Short returns the name without the "ui." namespace.
func (t ComponentType) Short() string {
	return strings.TrimPrefix(string(t), "ui.")
}

// Section is one of the three fixed page regions.
type Section string

const (
	SectionHero   Section = "hero"
	SectionMain   Section = "main"
	SectionFooter Section = "footer"
)

// Sections lists the page regions in render order.
var Sections = []Section{SectionHero, SectionMain, SectionFooter}

// All lists every known type in catalog order.
var All = []ComponentType{
	Hero, Navbar, Search, Countdown,
	Footer, Contacts, SocialLinks,
	ProductGrid, Filters, Cart, Cards, SectionBlock, Heading, Text, Button, Form, CTA, ProductCard, Container,
	ServicesGrid, DoctorsList, AppointmentForm, CourseList, FeaturesList, JobList,
	Schedule, Speakers, Tickets, Gallery, Calculator, Testimonials,
}

var placement = map[ComponentType]Section{
	Hero:        SectionHero,
	Navbar:      SectionHero,
	Search:      SectionHero,
	Countdown:   SectionHero,
	Footer:      SectionFooter,
	Contacts:    SectionFooter,
	SocialLinks: SectionFooter,
}

// SectionFor returns the placement section of t. Anything not pinned to the
// hero or footer belongs to main, including unknown types.
func SectionFor(t ComponentType) Section {
	if s, ok := placement[t]; ok {
		return s
	}
	return SectionMain
}

// Known reports whether t is part of the catalog.
func Known(t ComponentType) bool {
	for _, c := range All {
		if c == t {
			return true
		}
	}
	return false
}

// Lookup resolves a component name case-insensitively, with or without the
// "ui." prefix. Config keys pass through here since viper lower-cases them.
func Lookup(name string) (ComponentType, bool) {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(strings.ToLower(name), "ui.") {
		name = "ui." + name
	}
	for _, c := range All {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}
