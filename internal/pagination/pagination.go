// Package pagination implements the limit/offset contract shared by every
// list endpoint: `limit` and `offset` query parameters and a
// {count, next, previous, results} response envelope.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params are the sanitized limit/offset of a list request.
type Params struct {
	Limit  int
	Offset int
}

// FromCtx reads limit/offset from the query string, clamping to sane bounds.
// Malformed or negative values fall back to defaults.
func FromCtx(c *fiber.Ctx) Params {
	p := Params{Limit: DefaultLimit}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}
	return p
}

// Envelope is the standard list response body.
type Envelope struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewEnvelope builds the envelope for one page. baseURL is the absolute URL
// of the collection without pagination parameters; results must never be nil
// (use an empty slice).
func NewEnvelope(baseURL string, p Params, count int64, results interface{}) Envelope {
	env := Envelope{Count: count, Results: results}
	if int64(p.Offset+p.Limit) < count {
		env.Next = pageLink(baseURL, p.Limit, p.Offset+p.Limit)
	}
	if p.Offset > 0 {
		env.Previous = pageLink(baseURL, p.Limit, p.Offset-p.Limit)
	}
	return env
}

// pageLink renders a page URL. A first-page link carries no offset
// parameter at all rather than offset=0.
func pageLink(baseURL string, limit, offset int) *string {
	var link string
	if offset > 0 {
		link = fmt.Sprintf("%s?limit=%d&offset=%d", baseURL, limit, offset)
	} else {
		link = fmt.Sprintf("%s?limit=%d", baseURL, limit)
	}
	return &link
}
