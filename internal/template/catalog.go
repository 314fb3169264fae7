// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package template

import "github.com/olegiv/obuilder-go/internal/model"

// Catalog returns the built-in template definitions, ordered for display.
func Catalog() []model.Template {
	return []model.Template{
		saasTemplate(),
		productTemplate(),
		portfolioTemplate(),
		blankTemplate(),
	}
}

// FindTemplate returns the catalog template with the given id.
// The second return value reports whether it was found.
func FindTemplate(id string) (model.Template, bool) {
	for _, tpl := range Catalog() {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return model.Template{}, false
}

func saasTemplate() model.Template {
	return model.Template{
		ID:          "saas-starter",
		Name:        "SaaS Starter",
		Description: "Hero, feature grid, pricing table and FAQ for a software product.",
		Category:    model.TemplateCategorySaaS,
		Components: []model.ComponentBlueprint{
			{Type: model.ComponentTypeHeader, Config: model.HeaderConfig{
				SiteName: "Acme", ShowCTA: true, CTALabel: "Get started", CTALink: "#signup",
			}},
			{Type: model.ComponentTypeHero, Config: model.HeroConfig{
				Heading:    "Ship your product faster",
				Subheading: "Everything you need to launch, in one place.",
				CTALabel:   "Start free trial",
				Align:      "center",
			}},
			{Type: model.ComponentTypeFeatures, Config: model.FeaturesConfig{
				Heading: "Why Acme",
				Columns: 3,
				Items: []model.FeatureItem{
					{Icon: "zap", Title: "Fast", Body: "Set up in minutes."},
					{Icon: "shield", Title: "Secure", Body: "Your data stays yours."},
					{Icon: "chart", Title: "Insightful", Body: "Know what works."},
				},
			}},
			{Type: model.ComponentTypePricing, Config: model.PricingConfig{
				Heading: "Simple pricing",
				Plans: []model.PricingPlan{
					{Name: "Free", Price: "$0", Period: "forever", Bullets: []string{"1 project", "Community support"}},
					{Name: "Pro", Price: "$19", Period: "per month", Highlight: true,
						Bullets: []string{"Unlimited projects", "Priority support", "Custom domain"}},
				},
			}},
			{Type: model.ComponentTypeFAQ, Config: model.FAQConfig{
				Heading: "Frequently asked questions",
				Items: []model.QAItem{
					{Question: "Can I cancel anytime?", Answer: "Yes, with one click."},
				},
			}},
			{Type: model.ComponentTypeCTA, Config: model.CTAConfig{
				Heading: "Ready to start?", ButtonLabel: "Sign up", ButtonLink: "#signup",
			}},
			{Type: model.ComponentTypeFooter, Config: model.FooterConfig{
				Text: "© Acme Inc.",
			}},
		},
	}
}

func productTemplate() model.Template {
	return model.Template{
		ID:          "product-launch",
		Name:        "Product Launch",
		Description: "Announcement page with gallery and testimonials.",
		Category:    model.TemplateCategoryProduct,
		Components: []model.ComponentBlueprint{
			{Type: model.ComponentTypeHeader, Config: model.HeaderConfig{SiteName: "Launchpad"}},
			{Type: model.ComponentTypeHero, Config: model.HeroConfig{
				Heading: "Meet the next big thing", CTALabel: "Pre-order now",
			}},
			{Type: model.ComponentTypeGallery, Config: model.GalleryConfig{Heading: "In pictures"}},
			{Type: model.ComponentTypeTestimonials, Config: model.TestimonialsConfig{
				Heading: "Early reviews",
				Quotes: []model.Testimonial{
					{Quote: "Changed how we work.", Author: "Jamie Lee", Role: "CTO, Example Co"},
				},
			}},
			{Type: model.ComponentTypeContact, Config: model.ContactConfig{
				Heading: "Questions?", ShowForm: true,
			}},
			{Type: model.ComponentTypeFooter, Config: model.FooterConfig{Text: "© Launchpad"}},
		},
	}
}

func portfolioTemplate() model.Template {
	return model.Template{
		ID:          "portfolio-minimal",
		Name:        "Minimal Portfolio",
		Description: "A quiet single-column page for personal work.",
		Category:    model.TemplateCategoryPortfolio,
		Components: []model.ComponentBlueprint{
			{Type: model.ComponentTypeHero, Config: model.HeroConfig{
				Heading: "Hi, I make things", Align: "left",
			}},
			{Type: model.ComponentTypeGallery, Config: model.GalleryConfig{Heading: "Selected work"}},
			{Type: model.ComponentTypeText, Config: model.TextConfig{
				Markdown: "## About\n\nWrite a short bio here.",
			}},
			{Type: model.ComponentTypeContact, Config: model.ContactConfig{Heading: "Get in touch"}},
		},
	}
}

func blankTemplate() model.Template {
	return model.Template{
		ID:          "blank",
		Name:        "Blank Page",
		Description: "Start from nothing.",
		Category:    model.TemplateCategoryBlank,
		Components:  []model.ComponentBlueprint{},
	}
}
