package params

import "github.com/labstack/echo/v4"

// QueryParams holds common list-endpoint paging parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromEcho extracts paging params with sane bounds.
func FromEcho(c echo.Context) QueryParams {
	p := QueryParams{PageNumber: 1, PageSize: 20}
	if v := c.QueryParam("page"); v != "" {
		if n := atoi(v); n > 0 {
			p.PageNumber = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n := atoi(v); n > 0 && n <= 100 {
			p.PageSize = n
		}
	}
	return p
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
