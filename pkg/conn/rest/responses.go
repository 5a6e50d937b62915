package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apierr "github.com/weftml/weft/pkg/api/types/errors"
)

type MessageFor map[StatusCodeRange]string

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//   - messageFor: title of error message for HTTP status code range.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is in 4xx or 5xx
func UnmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf(
				"unexpected response (status code = %d): %w", resp.StatusCode, err,
			)
		}
		return nil
	}

	return errorFromResponse(resp, scr, messageFor)
}

// drain http response expected to carry no payload the caller cares about.
func UnmarshalResponseDiscardingPayload(resp *http.Response, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return errorFromResponse(resp, scr, messageFor)
}

func errorFromResponse(resp *http.Response, scr StatusCodeRange, messageFor MessageFor) error {
	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: cannot read server message: %w", message, err)
	}

	detail := detailOf(body)
	if detail == "" {
		return fmt.Errorf("%s", message)
	}
	return fmt.Errorf("%s: %s", message, detail)
}

// detailOf renders the server's account of an error.
//
// echo flattens weftd's ErrorMessage into {"message": "..."} (ErrorMessage
// is an error, not a json.Marshaler). Bare ErrorMessage bodies and raw text
// are handled too, for servers answering outside echo's error pipeline.
func detailOf(body []byte) string {
	if em, err := jsonUnmarshal[apierr.ErrorMessage](body); err == nil {
		detail := em.Reason
		if em.Advice != "" {
			detail = detail + " (" + em.Advice + ")"
		}
		return detail
	}

	if msg, err := jsonUnmarshal[struct {
		Message *string `json:"message"`
	}](body); err == nil && msg.Message != nil {
		return *msg.Message
	}

	return strings.TrimSpace(string(body))
}

func jsonUnmarshal[T any](buf []byte) (*T, error) {
	ret := new(T)
	if err := json.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
