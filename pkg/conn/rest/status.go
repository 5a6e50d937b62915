package rest

import (
	"fmt"
	"net/http"
)

// StatusCodeRange classifies HTTP status codes by their hundreds digit.
type StatusCodeRange int

const (
	StatusUnknown StatusCodeRange = iota
	Status1xx
	Status2xx
	Status3xx
	Status4xx
	Status5xx
)

// StatusCodeRangeOf tells which range the response's status code is in.
func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	h := resp.StatusCode / 100
	if h < 1 || 5 < h {
		return StatusUnknown
	}
	return StatusCodeRange(h)
}

func (sc StatusCodeRange) String() string {
	switch sc {
	case Status1xx:
		return "informational response"
	case Status2xx:
		return "success"
	case Status3xx:
		return "redirect"
	case Status4xx:
		return "client error"
	case Status5xx:
		return "server error"
	default:
		return fmt.Sprintf("unknown (%d)", sc)
	}
}
