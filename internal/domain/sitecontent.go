package domain

import "time"

// MaxFeatureCards bounds the home-page feature card collection.
const MaxFeatureCards = 8

// CallToAction is a label/href pair on the home page.
type CallToAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// FeatureCard is one card in the home-page feature grid.
type FeatureCard struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HomeContent is the home section of the site content document.
type HomeContent struct {
	HeroTitle        string        `json:"heroTitle"`
	HeroSubtitle     string        `json:"heroSubtitle"`
	HeroSubtitleHTML string        `json:"heroSubtitleHtml,omitempty"`
	PrimaryCTA       CallToAction  `json:"primaryCta"`
	SecondaryCTA     CallToAction  `json:"secondaryCta"`
	Features         []FeatureCard `json:"features"`
}

// SiteContent is the singleton site content document. It is replaced whole
// on every save and re-normalized on every read.
type SiteContent struct {
	Home      HomeContent `json:"home"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
}
