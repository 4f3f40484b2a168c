package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
)

// UpstreamError is returned by every Fetcher method when a GitHub call fails,
// whether by transport failure, a non-2xx response or an undecodable payload.
type UpstreamError struct {
	// Op names the gateway operation, e.g. "fetch profile".
	Op string
	// Status is the upstream HTTP status, or 0 when no response was received.
	Status int
	// Body is the upstream error message. It is meant for logs, never for callers.
	Body string
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: github API error %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPStatus is the status a gateway should answer with: the upstream status
// when it reported a failure, 500 otherwise.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status >= http.StatusBadRequest {
		return e.Status
	}
	return http.StatusInternalServerError
}

// StatusOf returns the response status for err.
func StatusOf(err error) int {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// restError converts an error returned by go-github into an UpstreamError.
func restError(op string, resp *github.Response, err error) error {
	ue := &UpstreamError{Op: op, Err: err, Body: err.Error()}
	if resp != nil && resp.Response != nil {
		ue.Status = resp.StatusCode
	}

	var ghErr *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &ghErr):
		ue.Body = ghErr.Message
		if ue.Status == 0 && ghErr.Response != nil {
			ue.Status = ghErr.Response.StatusCode
		}
	case errors.As(err, &rateErr):
		ue.Body = rateErr.Message
		if ue.Status == 0 && rateErr.Response != nil {
			ue.Status = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		ue.Body = abuseErr.Message
		if ue.Status == 0 && abuseErr.Response != nil {
			ue.Status = abuseErr.Response.StatusCode
		}
	}
	return ue
}

// non200Pattern matches the message githubv4 produces for non-200 responses.
var non200Pattern = regexp.MustCompile(`non-200 OK status code: (\d{3})`)

// graphqlError converts an error returned by githubv4 into an UpstreamError.
// GraphQL reports a missing user inside a 200 response, so that case is
// recognized by its message and mapped to 404.
func graphqlError(op string, err error) error {
	ue := &UpstreamError{Op: op, Err: err, Body: err.Error()}
	if m := non200Pattern.FindStringSubmatch(err.Error()); m != nil {
		ue.Status, _ = strconv.Atoi(m[1])
	} else if strings.Contains(err.Error(), "Could not resolve to a User") {
		ue.Status = http.StatusNotFound
	}
	return ue
}
