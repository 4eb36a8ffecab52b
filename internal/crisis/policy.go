// Package crisis decides whether a confession needs a support interstitial
// before it may be submitted.
package crisis

import "hush/internal/analysis"

// Resource is a support service offered to the author.
type Resource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

// Resources are shown with every advisory or blocking decision.
var Resources = []Resource{
	{
		Name:        "Crisis Text Line",
		Description: "Free, confidential support 24/7",
		Contact:     "Text HOME to 741741",
		Type:        "text",
		URL:         "https://www.crisistextline.org/",
	},
	{
		Name:        "National Suicide Prevention Lifeline",
		Description: "Free and confidential emotional support",
		Contact:     "Call 988",
		Type:        "call",
		URL:         "https://suicidepreventionlifeline.org/",
	},
	{
		Name:        "Crisis Chat",
		Description: "Online chat support",
		Contact:     "Chat Now",
		Type:        "chat",
		URL:         "https://suicidepreventionlifeline.org/chat/",
	},
	{
		Name:        "International Association for Suicide Prevention",
		Description: "Global crisis resources",
		Contact:     "Find Local Help",
		Type:        "link",
		URL:         "https://www.iasp.info/resources/Crisis_Centres/",
	},
}

// Decision is the routing outcome for one submission.
type Decision struct {
	Level     analysis.CrisisLevel `json:"level"`
	MustBlock bool                 `json:"must_block"`
	Advisory  bool                 `json:"advisory"`
	Title     string               `json:"title,omitempty"`
	Message   string               `json:"message,omitempty"`
	Resources []Resource           `json:"resources,omitempty"`
}

// Route maps a crisis level onto a decision. high and critical block the
// submission until the author confirms; medium attaches a non-blocking
// advisory.
func Route(level analysis.CrisisLevel) Decision {
	d := Decision{Level: level}
	switch level {
	case analysis.CrisisCritical:
		d.MustBlock = true
		d.Title = "Immediate Support Available"
		d.Message = "If you are in immediate danger, please contact emergency services (911) or go to your nearest emergency room."
	case analysis.CrisisHigh:
		d.MustBlock = true
		d.Title = "Help is Available"
		d.Message = "We noticed your message might indicate you're going through a difficult time. Please know that help is available and you don't have to face this alone."
	case analysis.CrisisMedium:
		d.Advisory = true
		d.Title = "You Are Not Alone"
		d.Message = "It takes courage to share your feelings. If you need someone to talk to, these resources are here to help."
	default:
		d.Level = analysis.CrisisNone
		return d
	}
	d.Resources = Resources
	return d
}

// RouteAnalysis routes a possibly absent analysis; no analysis never blocks.
func RouteAnalysis(a *analysis.ContentAnalysis) Decision {
	if a == nil {
		return Route(analysis.CrisisNone)
	}
	return Route(a.CrisisLevel)
}

// Proceed reports whether the submission may continue given the author's
// explicit confirmation.
func (d Decision) Proceed(confirmed bool) bool {
	return !d.MustBlock || confirmed
}
