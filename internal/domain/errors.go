package domain

import "errors"

var (
	ErrMissingCredential = errors.New("no GitHub access token configured")
	ErrNoPullRequests    = errors.New("no merged pull requests to report on")
	ErrExcluded          = errors.New("pull request excluded from aggregates")
)
