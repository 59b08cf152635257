package domain

import (
	"github.com/aretw0/savestate/pkg/document"
)

// Classification is the campaign metadata stored as top-level save attributes.
type Classification struct {
	Label          string `mapstructure:"label"`
	Version        string `mapstructure:"version"`
	CampaignType   string `mapstructure:"campaign_type"`
	CampaignDefine string `mapstructure:"campaign_define"`
	Campaign       string `mapstructure:"campaign"`
	Abbrev         string `mapstructure:"abbrev"`
	Difficulty     string `mapstructure:"difficulty"`
	RandomMode     string `mapstructure:"random_mode"`
	Completion     string `mapstructure:"completion"`
	EndCredits     bool   `mapstructure:"end_credits"`
	EndText        string `mapstructure:"end_text"`
}

// NewClassification returns the defaults of a fresh single-player game.
func NewClassification() Classification {
	return Classification{
		CampaignType: CampaignTypeScenario,
		Difficulty:   "NORMAL",
		Completion:   "running",
		EndCredits:   true,
	}
}

// ClassificationFromDocument reads the classification from a save's top-level attributes.
// Missing attributes keep their defaults.
func ClassificationFromDocument(doc *document.Config) (Classification, error) {
	c := NewClassification()
	if err := decodeAttributes(doc, &c); err != nil {
		return NewClassification(), err
	}
	return c, nil
}

// ToDocument writes the classification as attributes of a new document.
func (c Classification) ToDocument() *document.Config {
	doc := document.New()
	doc.Set("label", c.Label)
	doc.Set("version", c.Version)
	doc.Set("campaign_type", c.CampaignType)
	doc.Set("campaign_define", c.CampaignDefine)
	doc.Set("campaign", c.Campaign)
	doc.Set("abbrev", c.Abbrev)
	doc.Set("difficulty", c.Difficulty)
	doc.Set("random_mode", c.RandomMode)
	doc.Set("completion", c.Completion)
	doc.Set("end_credits", c.EndCredits)
	doc.Set("end_text", c.EndText)
	return doc
}

// TagName returns the catalog tag scenarios of this game are defined under.
func (c Classification) TagName() string {
	switch c.CampaignType {
	case CampaignTypeMultiplayer:
		if c.Campaign == "" {
			return CampaignTypeMultiplayer
		}
		return CampaignTypeScenario
	case CampaignTypeTutorial, "":
		return CampaignTypeScenario
	default:
		return c.CampaignType
	}
}

// LabelFor computes the display label of a scenario name.
func (c Classification) LabelFor(scenarioName string) string {
	if c.Abbrev == "" {
		return scenarioName
	}
	return c.Abbrev + "-" + scenarioName
}
