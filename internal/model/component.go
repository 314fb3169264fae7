// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// Component type tags. The config union below is closed over these; a
// document containing an unknown tag decodes into GenericConfig so old
// builds can still load documents written by newer ones.
const (
	ComponentTypeHeader       = "header"
	ComponentTypeHero         = "hero"
	ComponentTypeFeatures     = "features"
	ComponentTypePricing      = "pricing"
	ComponentTypeTestimonials = "testimonials"
	ComponentTypeFAQ          = "faq"
	ComponentTypeGallery      = "gallery"
	ComponentTypeCTA          = "cta"
	ComponentTypeContact      = "contact"
	ComponentTypeText         = "text"
	ComponentTypeFooter       = "footer"
)

// ComponentTypeNames maps type tags to editor-facing display names.
var ComponentTypeNames = map[string]string{
	ComponentTypeHeader:       "Header",
	ComponentTypeHero:         "Hero",
	ComponentTypeFeatures:     "Features",
	ComponentTypePricing:      "Pricing",
	ComponentTypeTestimonials: "Testimonials",
	ComponentTypeFAQ:          "FAQ",
	ComponentTypeGallery:      "Gallery",
	ComponentTypeCTA:          "Call to Action",
	ComponentTypeContact:      "Contact",
	ComponentTypeText:         "Text Block",
	ComponentTypeFooter:       "Footer",
}

// ComponentDisplayName returns the display name for a type tag, falling
// back to the raw tag for unrecognized types.
func ComponentDisplayName(typeTag string) string {
	if name, ok := ComponentTypeNames[typeTag]; ok {
		return name
	}
	return typeTag
}

// ComponentConfig is the closed tagged union of per-type component
// payloads. Kind returns the owning type tag; CloneConfig returns a
// structurally independent deep copy.
type ComponentConfig interface {
	Kind() string
	CloneConfig() ComponentConfig
}

// NavLink is a labeled link used by header and footer configs.
type NavLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SocialLink points at a social network profile.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// HeaderConfig configures the page header.
type HeaderConfig struct {
	LogoURL     string    `json:"logo_url,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	Links       []NavLink `json:"links,omitempty"`
	ShowCTA     bool      `json:"show_cta,omitempty"`
	CTALabel    string    `json:"cta_label,omitempty"`
	CTALink     string    `json:"cta_link,omitempty"`
	Transparent bool      `json:"transparent,omitempty"`
}

func (HeaderConfig) Kind() string { return ComponentTypeHeader }

func (c HeaderConfig) CloneConfig() ComponentConfig {
	out := c
	out.Links = append([]NavLink(nil), c.Links...)
	return out
}

// HeroConfig configures the hero section.
type HeroConfig struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	CTALabel   string `json:"cta_label,omitempty"`
	CTALink    string `json:"cta_link,omitempty"`
	Align      string `json:"align,omitempty"`
}

func (HeroConfig) Kind() string { return ComponentTypeHero }

func (c HeroConfig) CloneConfig() ComponentConfig { return c }

// FeatureItem is one entry of a features grid.
type FeatureItem struct {
	Icon  string `json:"icon,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// FeaturesConfig configures a features grid.
type FeaturesConfig struct {
	Heading string        `json:"heading,omitempty"`
	Columns int           `json:"columns,omitempty"`
	Items   []FeatureItem `json:"items,omitempty"`
}

func (FeaturesConfig) Kind() string { return ComponentTypeFeatures }

func (c FeaturesConfig) CloneConfig() ComponentConfig {
	out := c
	out.Items = append([]FeatureItem(nil), c.Items...)
	return out
}

// PricingPlan is one column of a pricing table.
type PricingPlan struct {
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Period    string   `json:"period,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
	CTALabel  string   `json:"cta_label,omitempty"`
	CTALink   string   `json:"cta_link,omitempty"`
	Highlight bool     `json:"highlight,omitempty"`
}

// PricingConfig configures a pricing table.
type PricingConfig struct {
	Heading string        `json:"heading,omitempty"`
	Plans   []PricingPlan `json:"plans,omitempty"`
}

func (PricingConfig) Kind() string { return ComponentTypePricing }

func (c PricingConfig) CloneConfig() ComponentConfig {
	out := c
	if c.Plans != nil {
		out.Plans = make([]PricingPlan, len(c.Plans))
		for i, p := range c.Plans {
			p.Bullets = append([]string(nil), p.Bullets...)
			out.Plans[i] = p
		}
	}
	return out
}

// Testimonial is one customer quote.
type Testimonial struct {
	Quote     string `json:"quote"`
	Author    string `json:"author"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// TestimonialsConfig configures a testimonials section.
type TestimonialsConfig struct {
	Heading string        `json:"heading,omitempty"`
	Quotes  []Testimonial `json:"quotes,omitempty"`
}

func (TestimonialsConfig) Kind() string { return ComponentTypeTestimonials }

func (c TestimonialsConfig) CloneConfig() ComponentConfig {
	out := c
	out.Quotes = append([]Testimonial(nil), c.Quotes...)
	return out
}

// QAItem is one question/answer pair.
type QAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQConfig configures an FAQ section.
type FAQConfig struct {
	Heading string   `json:"heading,omitempty"`
	Items   []QAItem `json:"items,omitempty"`
}

func (FAQConfig) Kind() string { return ComponentTypeFAQ }

func (c FAQConfig) CloneConfig() ComponentConfig {
	out := c
	out.Items = append([]QAItem(nil), c.Items...)
	return out
}

// GalleryImage is one image of a gallery.
type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// GalleryConfig configures an image gallery.
type GalleryConfig struct {
	Heading string         `json:"heading,omitempty"`
	Images  []GalleryImage `json:"images,omitempty"`
}

func (GalleryConfig) Kind() string { return ComponentTypeGallery }

func (c GalleryConfig) CloneConfig() ComponentConfig {
	out := c
	out.Images = append([]GalleryImage(nil), c.Images...)
	return out
}

// CTAConfig configures a call-to-action banner.
type CTAConfig struct {
	Heading     string `json:"heading"`
	Body        string `json:"body,omitempty"`
	ButtonLabel string `json:"button_label,omitempty"`
	ButtonLink  string `json:"button_link,omitempty"`
}

func (CTAConfig) Kind() string { return ComponentTypeCTA }

func (c CTAConfig) CloneConfig() ComponentConfig { return c }

// ContactConfig configures a contact section.
type ContactConfig struct {
	Heading  string `json:"heading,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	ShowForm bool   `json:"show_form,omitempty"`
}

func (ContactConfig) Kind() string { return ComponentTypeContact }

func (c ContactConfig) CloneConfig() ComponentConfig { return c }

// TextConfig holds a free-form markdown block.
type TextConfig struct {
	Markdown string `json:"markdown"`
}

func (TextConfig) Kind() string { return ComponentTypeText }

func (c TextConfig) CloneConfig() ComponentConfig { return c }

// FooterConfig configures the page footer.
type FooterConfig struct {
	Text   string       `json:"text,omitempty"`
	Links  []NavLink    `json:"links,omitempty"`
	Social []SocialLink `json:"social,omitempty"`
}

func (FooterConfig) Kind() string { return ComponentTypeFooter }

func (c FooterConfig) CloneConfig() ComponentConfig {
	out := c
	out.Links = append([]NavLink(nil), c.Links...)
	out.Social = append([]SocialLink(nil), c.Social...)
	return out
}

// GenericConfig carries the raw payload of a component type this build
// does not know. It round-trips through save/load untouched.
type GenericConfig struct {
	TypeTag string
	Raw     json.RawMessage
}

func (c GenericConfig) Kind() string { return c.TypeTag }

func (c GenericConfig) CloneConfig() ComponentConfig {
	out := c
	out.Raw = append(json.RawMessage(nil), c.Raw...)
	return out
}

// MarshalJSON emits the raw payload unchanged.
func (c GenericConfig) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return []byte("{}"), nil
	}
	return c.Raw, nil
}

// UnmarshalComponentConfig decodes a config payload according to its type
// tag. Unknown tags decode into GenericConfig.
func UnmarshalComponentConfig(typeTag string, raw json.RawMessage) (ComponentConfig, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	var (
		cfg ComponentConfig
		err error
	)

	switch typeTag {
	case ComponentTypeHeader:
		var c HeaderConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeHero:
		var c HeroConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeFeatures:
		var c FeaturesConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypePricing:
		var c PricingConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeTestimonials:
		var c TestimonialsConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeFAQ:
		var c FAQConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeGallery:
		var c GalleryConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeCTA:
		var c CTAConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeContact:
		var c ContactConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeText:
		var c TextConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	case ComponentTypeFooter:
		var c FooterConfig
		err = json.Unmarshal(raw, &c)
		cfg = c
	default:
		return GenericConfig{TypeTag: typeTag, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", typeTag, err)
	}
	return cfg, nil
}
