package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/courtside-data/atp-cli/internal/model"
)

var (
	birthdateRe = regexp.MustCompile(`(\d{4})/(\d{2})/(\d{2})`)
	weightKgRe  = regexp.MustCompile(`\((\d+)kg\)`)
	weightLbsRe = regexp.MustCompile(`(\d+)\s*lbs`)
	heightCmRe  = regexp.MustCompile(`\((\d+)cm\)`)
	heightFtRe  = regexp.MustCompile(`(\d+)'(\d+)"`)
)

// ParsePlayerBio extracts the bio bundle from a rendered player
// overview page. Labels that are absent or unreadable leave their
// field nil; an error is returned only when the bio block itself is
// missing from the page.
func ParsePlayerBio(doc *goquery.Document) (model.Player, error) {
	content := doc.Find("div.pd_content").First()
	if content.Length() == 0 {
		return model.Player{}, eris.New("scrape: bio content not found")
	}

	var bio model.Player
	content.Find("li").Each(func(_ int, li *goquery.Selection) {
		spans := li.ChildrenFiltered("span")
		if spans.Length() < 2 {
			return
		}
		label := strings.TrimSpace(spans.Eq(0).Text())
		value := strings.TrimSpace(spans.Eq(1).Text())

		switch label {
		case "Age", "DOB":
			bio.Birthdate = extractBirthdate(value)
		case "Weight":
			bio.WeightKG = extractWeightKG(value)
		case "Height":
			bio.HeightCM = extractHeightCM(value)
		case "Turned pro":
			if v, err := strconv.ParseInt(value, 10, 64); err == nil {
				bio.TurnedPro = &v
			}
		case "Country":
			first, _, _ := strings.Cut(value, "\n")
			bio.Country = model.StringPtr(strings.TrimSpace(first))
		case "Birthplace":
			bio.Birthplace = model.StringPtr(value)
		case "Plays":
			bio.Handedness, bio.Backhand = parsePlays(value)
		case "Coach":
			bio.Coach = model.StringPtr(value)
		}
	})

	return bio, nil
}

// HasBioFields reports whether at least one bio field was obtained.
func HasBioFields(p model.Player) bool {
	return p.Birthdate != nil || p.WeightKG != nil || p.HeightCM != nil ||
		p.TurnedPro != nil || p.Country != nil || p.Birthplace != nil ||
		p.Handedness != nil || p.Backhand != nil || p.Coach != nil
}

func extractBirthdate(s string) *string {
	return model.StringPtr(birthdateRe.FindString(s))
}

// extractWeightKG prefers the metric figure in parentheses and falls
// back to converting pounds: round(lbs * 0.453592).
func extractWeightKG(s string) *int64 {
	if m := weightKgRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return &v
		}
	}
	if m := weightLbsRe.FindStringSubmatch(s); m != nil {
		if lbs, err := strconv.ParseFloat(m[1], 64); err == nil {
			v := int64(lbs*0.453592 + 0.5)
			return &v
		}
	}
	return nil
}

// extractHeightCM prefers the metric figure in parentheses and falls
// back to converting feet and inches: round((ft*12 + in) * 2.54).
func extractHeightCM(s string) *int64 {
	if m := heightCmRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return &v
		}
	}
	if m := heightFtRe.FindStringSubmatch(s); m != nil {
		feet, err1 := strconv.ParseFloat(m[1], 64)
		inches, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			v := int64((feet*12+inches)*2.54 + 0.5)
			return &v
		}
	}
	return nil
}

func parsePlays(s string) (handedness, backhand *string) {
	switch {
	case strings.Contains(s, "Right-Handed"):
		handedness = model.StringPtr("Right-Handed")
	case strings.Contains(s, "Left-Handed"):
		handedness = model.StringPtr("Left-Handed")
	}
	switch {
	case strings.Contains(s, "Two-Handed Backhand"):
		backhand = model.StringPtr("Two-Handed")
	case strings.Contains(s, "One-Handed Backhand"):
		backhand = model.StringPtr("One-Handed")
	}
	return handedness, backhand
}
