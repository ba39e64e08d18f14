package services

import (
	"errors"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/repository"
)

const msgNoCredentials = "authentication credentials were not provided"

// storeError maps a repository error to what the client should see.
func storeError(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Internal("storage failure").WithCause(err)
}

// missing returns the names whose value is blank, in order.
func missing(fields ...[2]string) []string {
	out := make([]string, 0)
	for _, f := range fields {
		if isBlank(f[1]) {
			out = append(out, f[0])
		}
	}
	return out
}

func field(name, value string) [2]string {
	return [2]string{name, value}
}
