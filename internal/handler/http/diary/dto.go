// Package diary provides the HTTP handlers for browsing and editing diary entries.
// Browse endpoints return a page of entries together with pointers to the
// adjacent page, which may belong to a different month, day or entry.
package diary

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"daybook/internal/domain/entity"
)

// EntryDTO represents the JSON structure for entry data transfer.
type EntryDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConditionDTO describes a condition. Only the fields of its kind are set.
type ConditionDTO struct {
	Kind  string   `json:"kind"`
	ID    int64    `json:"id,omitempty"`
	Year  int      `json:"year,omitempty"`
	Month int      `json:"month,omitempty"`
	Day   int      `json:"day,omitempty"`
	Terms []string `json:"terms,omitempty"`
}

// AdjacentDTO is either {"page": n} or {"condition": {...}, "href": "..."}.
// An absent pointer is encoded as null by PageDTO.
type AdjacentDTO struct {
	Page      int           `json:"page,omitempty"`
	Condition *ConditionDTO `json:"condition,omitempty"`
	Href      string        `json:"href,omitempty"`
}

// PageDTO is the response body of every browse endpoint.
type PageDTO struct {
	Condition ConditionDTO `json:"condition"`
	Index     int          `json:"index"`
	Entries   []EntryDTO   `json:"entries"`
	Next      *AdjacentDTO `json:"next"`
	Prev      *AdjacentDTO `json:"prev"`
}

func toEntryDTO(e *entity.Entry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Title:     e.Title,
		Body:      e.Body,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toConditionDTO(c entity.Condition) ConditionDTO {
	out := ConditionDTO{Kind: c.Kind().String()}
	switch v := c.(type) {
	case entity.ByID:
		out.ID = v.ID
	case entity.ByYearMonth:
		out.Year, out.Month = v.Year, int(v.Month)
	case entity.ByDate:
		out.Year, out.Month, out.Day = v.Year, int(v.Month), v.Day
	case entity.ByKeywords:
		out.Terms = v.Terms
	}
	return out
}

func toAdjacentDTO(a entity.Adjacent) *AdjacentDTO {
	if i, ok := a.PageIndex(); ok {
		return &AdjacentDTO{Page: i}
	}
	if c, ok := a.Condition(); ok {
		cd := toConditionDTO(c)
		return &AdjacentDTO{Condition: &cd, Href: Href(c)}
	}
	return nil
}

// NewPageDTO converts a page to its JSON form.
func NewPageDTO(p *entity.Page) PageDTO {
	entries := make([]EntryDTO, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, toEntryDTO(e))
	}
	return PageDTO{
		Condition: toConditionDTO(p.Condition),
		Index:     p.Index,
		Entries:   entries,
		Next:      toAdjacentDTO(p.Next),
		Prev:      toAdjacentDTO(p.Prev),
	}
}

// Href returns the browse URL of page 1 of c.
func Href(c entity.Condition) string {
	switch v := c.(type) {
	case entity.ByID:
		return "/entries/" + strconv.FormatInt(v.ID, 10)
	case entity.ByYearMonth:
		return fmt.Sprintf("/months/%04d/%02d", v.Year, int(v.Month))
	case entity.ByDate:
		return fmt.Sprintf("/days/%04d/%02d/%02d", v.Year, int(v.Month), v.Day)
	case entity.ByKeywords:
		return "/search?" + url.Values{"q": {strings.Join(v.Terms, " ")}}.Encode()
	default:
		return "/entries"
	}
}
