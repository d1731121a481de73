package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ParsePage reads the offset and limit query parameters. Missing values fall back to
// offset 0 and DefaultPageLimit; a limit above MaxPageLimit is rejected.
func ParsePage(c *gin.Context) (Page, error) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := queryInt(c, "limit", DefaultPageLimit)
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}

// Next returns the page following p.
func (p Page) Next() Page {
	return Page{Offset: p.Offset + p.Limit, Limit: p.Limit}
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
