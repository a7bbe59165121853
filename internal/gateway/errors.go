package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/Nehorai4/git-project/internal/domain"
)

// classify wraps err in a domain.APIError carrying its error kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return err
	}

	kind := domain.ErrUnexpected
	var errResp *github.ErrorResponse
	var netErr net.Error
	switch {
	case errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	// GraphQL reports a missing repository as a query error with HTTP 200.
	case strings.Contains(err.Error(), "Could not resolve to a Repository"):
		kind = domain.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		kind = domain.ErrConnectivity
	}
	return &domain.APIError{Kind: kind, Err: err}
}
