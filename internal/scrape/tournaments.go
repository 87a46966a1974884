package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/courtside-data/atp-cli/internal/model"
)

var flagHrefRe = regexp.MustCompile(`#flag-([a-z]+)`)

// ParseResultsArchive extracts completed tournaments from one results
// archive page. Events with neither a singles nor a doubles winner are
// still in progress and are skipped entirely.
func ParseResultsArchive(doc *goquery.Document, year int64, tournamentType string) []model.Tournament {
	var tournaments []model.Tournament

	doc.Find("ul.events > li").Each(func(_ int, li *goquery.Selection) {
		info := li.Find("div.tournament-info").First()
		if info.Length() == 0 {
			return
		}

		t := model.Tournament{
			Year:        year,
			Type:        tournamentType,
			Name:        model.StringPtr(strings.TrimSpace(info.Find("span.name").First().Text())),
			CountryCode: flagCountry(info),
			Venue:       venueText(info),
		}
		t.StartDate, t.EndDate = ParseDateRange(info.Find("span.Date").First().Text())

		singlesID, singlesName, doublesIDs, doublesNames := winners(li)
		if singlesID == "" && len(doublesIDs) == 0 {
			return
		}
		t.SinglesWinnerID = model.StringPtr(singlesID)
		t.SinglesWinnerName = model.StringPtr(singlesName)
		if len(doublesIDs) > 0 {
			t.DoublesWinnerIDs = model.StringPtr(strings.Join(doublesIDs, ","))
		}
		if len(doublesNames) > 0 {
			t.DoublesWinnerNames = model.StringPtr(strings.Join(doublesNames, ","))
		}

		tournaments = append(tournaments, t)
	})

	return tournaments
}

// flagCountry reads the country code from the flag sprite reference.
func flagCountry(info *goquery.Selection) *string {
	href, ok := info.Find("svg.atp-flag use").First().Attr("href")
	if !ok {
		return nil
	}
	m := flagHrefRe.FindStringSubmatch(href)
	if m == nil {
		return nil
	}
	return model.StringPtr(strings.ToUpper(m[1]))
}

// venueText reads the venue label, dropping its trailing separator.
func venueText(info *goquery.Selection) *string {
	v := strings.TrimSpace(info.Find("span.venue").First().Text())
	v = strings.TrimSpace(strings.TrimRight(v, " |"))
	return model.StringPtr(v)
}

// winners reads the singles and doubles champions from the card footer.
// Doubles winner order is preserved as listed.
func winners(li *goquery.Selection) (singlesID, singlesName string, doublesIDs, doublesNames []string) {
	li.Find("div.cta-holder dl.winner").Each(func(_ int, dl *goquery.Selection) {
		label := dl.Find("dt").First().Text()
		switch {
		case strings.Contains(label, "Singles"):
			link := dl.Find("a").First()
			if link.Length() == 0 {
				return
			}
			singlesName = strings.TrimSpace(link.Text())
			if href, ok := link.Attr("href"); ok {
				singlesID = ExtractPlayerID(href)
			}
		case strings.Contains(label, "Doubles"):
			dl.Find("a").Each(func(_ int, link *goquery.Selection) {
				doublesNames = append(doublesNames, strings.TrimSpace(link.Text()))
				if href, ok := link.Attr("href"); ok {
					if id := ExtractPlayerID(href); id != "" {
						doublesIDs = append(doublesIDs, id)
					}
				}
			})
		}
	})
	return singlesID, singlesName, doublesIDs, doublesNames
}
