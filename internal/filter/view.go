package filter

import "github.com/mohammad-safakhou/digestboard/models"

// Item is a topic decorated for display.
type Item struct {
	models.Topic
	ContributorList []string         `json:"contributorList"`
	Read            bool             `json:"read"`
	Favorite        bool             `json:"favorite"`
	Band            models.ScoreBand `json:"band,omitempty"`
}

// Page is one page of the filtered list.
type Page struct {
	Items      []Item `json:"items"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

// ClampPageSize keeps size inside the slider range, 0 meaning the default.
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size < MinPageSize:
		return MinPageSize
	case size > MaxPageSize:
		return MaxPageSize
	}
	return size
}

// View filters, optionally sorts, and pages topics.
func View(topics []models.Topic, c Criteria, flags Flags, scores map[string]float64) Page {
	visible := Apply(topics, c, flags, scores)
	if c.SortByInterest {
		visible = Sort(visible, scores)
	}

	size := ClampPageSize(c.PageSize)
	total := len(visible)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page := c.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	lo := (page - 1) * size
	hi := lo + size
	if hi > total {
		hi = total
	}
	items := make([]Item, 0, hi-lo)
	for _, t := range visible[lo:hi] {
		if s, ok := scoreOf(t, scores); ok && !t.HasScore() {
			v := s
			t.InterestScore = &v
		}
		names, _ := models.ParseContributors(t.Contributors)
		if names == nil {
			names = []string{}
		}
		items = append(items, Item{
			Topic:           t,
			ContributorList: names,
			Read:            flags.Read[t.TopicID],
			Favorite:        flags.Favorite[t.TopicID],
			Band:            models.BandFor(t.InterestScore),
		})
	}
	return Page{Items: items, Total: total, TotalPages: pages, Page: page, PageSize: size}
}
