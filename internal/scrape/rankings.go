package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/courtside-data/atp-cli/internal/model"
)

// ParseRankingDates extracts every published snapshot date from the
// rankings page date dropdown. The current week carries a sentinel
// value, so its date is read from the visible label instead.
func ParseRankingDates(doc *goquery.Document) []string {
	var dates []string
	doc.Find("select#dateWeek-filter option").Each(func(_ int, opt *goquery.Selection) {
		value, ok := opt.Attr("value")
		if !ok {
			return
		}
		if value == "Current Week" {
			// Label looks like "2024.10.28".
			label := strings.TrimSpace(opt.Text())
			if label != "" {
				dates = append(dates, strings.ReplaceAll(label, ".", "-"))
			}
			return
		}
		if value != "" {
			dates = append(dates, value)
		}
	})
	return dates
}

// ParseRankingPage extracts ranking rows and the player names seen on
// them from one weekly snapshot. Rows with broken markup keep what
// could be read; a player row is only emitted when both id and name
// are present.
func ParseRankingPage(doc *goquery.Document, rankingType, date string) ([]model.Ranking, []model.Player) {
	var rankings []model.Ranking
	var players []model.Player

	doc.Find("table.desktop-table tbody tr.lower-row").Each(func(_ int, row *goquery.Selection) {
		playerID, playerName := playerCell(row)

		rankings = append(rankings, model.Ranking{
			Rank:              rankValue(row),
			PlayerID:          playerID,
			Points:            cellCount(row, "points"),
			PointsMove:        cellCount(row, "pointsMove"),
			TournamentsPlayed: cellCount(row, "tourns"),
			Dropping:          cellCount(row, "drop"),
			NextBest:          cellCount(row, "best"),
			Date:              date,
			Type:              rankingType,
		})

		if playerID != "" && playerName != "" {
			players = append(players, model.Player{PlayerID: playerID, Name: playerName})
		}
	})

	return rankings, players
}

// findCell locates a td whose class list contains the given token.
func findCell(row *goquery.Selection, name string) *goquery.Selection {
	return row.Find("td").FilterFunction(func(_ int, s *goquery.Selection) bool {
		cls, _ := s.Attr("class")
		for _, tok := range strings.Fields(cls) {
			if tok == name {
				return true
			}
		}
		return false
	}).First()
}

// rankValue reads the rank cell; tied ranks are suffixed with "T".
func rankValue(row *goquery.Selection) *int64 {
	cell := findCell(row, "rank")
	if cell.Length() == 0 {
		return nil
	}
	text := strings.ReplaceAll(strings.TrimSpace(cell.Text()), "T", "")
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func cellCount(row *goquery.Selection, name string) *int64 {
	cell := findCell(row, name)
	if cell.Length() == 0 {
		return nil
	}
	return ParseCount(cell.Text())
}

// playerCell reads the profile link: the id is the second-to-last path
// segment of the href, the name lives in the link's span.
func playerCell(row *goquery.Selection) (id, name string) {
	link := findCell(row, "player").Find("a").First()
	if link.Length() == 0 {
		return "", ""
	}

	if href, ok := link.Attr("href"); ok {
		parts := strings.Split(href, "/")
		if len(parts) >= 2 {
			id = parts[len(parts)-2]
		}
	}

	name = strings.TrimSpace(link.Find("span").First().Text())
	return id, name
}
