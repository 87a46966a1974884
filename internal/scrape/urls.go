package scrape

import "fmt"

// DefaultBaseURL is the public tour site root.
const DefaultBaseURL = "https://www.atptour.com"

// rankRange asks the rankings page for the full table instead of the
// default top-100 slice.
const rankRange = "0-5000"

// RankingDatesURL returns the rankings page whose date dropdown lists
// every published snapshot for the given type.
func (c *Client) RankingDatesURL(rankingType string) string {
	return fmt.Sprintf("%s/en/rankings/%s?rankRange=%s", c.baseURL, rankingType, rankRange)
}

// RankingsURL returns the rankings page for one snapshot date.
func (c *Client) RankingsURL(rankingType, date string) string {
	return fmt.Sprintf("%s/en/rankings/%s?rankRange=%s&dateWeek=%s", c.baseURL, rankingType, rankRange, date)
}

// ResultsArchiveURL returns the results archive for a (year, type) pair.
func (c *Client) ResultsArchiveURL(year int, tournamentType string) string {
	return fmt.Sprintf("%s/en/scores/results-archive?year=%d&tournamentType=%s", c.baseURL, year, tournamentType)
}

// PlayerOverviewURL returns the script-rendered player overview page.
func (c *Client) PlayerOverviewURL(slug, playerID string) string {
	return fmt.Sprintf("%s/en/players/%s/%s/overview", c.baseURL, slug, playerID)
}
