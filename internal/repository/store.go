package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riseresearch/rise-api/pkg/airtable"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
)

// storeError maps a record-store failure onto the error taxonomy.
func storeError(err error, action string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if airtable.IsTimeout(err) {
		return appErrors.WrapAs(appErrors.ErrUpstreamTimeout, err, fmt.Sprintf("%s: record store did not respond in time", action))
	}
	if errors.Is(err, context.Canceled) {
		return appErrors.WrapAs(appErrors.ErrUpstream, err, fmt.Sprintf("%s: request cancelled", action))
	}
	var se *airtable.StatusError
	if errors.As(err, &se) {
		if se.Status == 404 {
			return appErrors.WrapAs(appErrors.ErrNotFound, err, fmt.Sprintf("%s: record not found", action))
		}
		upstream := appErrors.WrapAs(appErrors.ErrUpstream, err, fmt.Sprintf("%s: record store returned %d %s", action, se.Status, se.StatusText))
		upstream.Retryable = se.Status == 429 || se.Status >= 500
		return upstream
	}
	return appErrors.WrapAs(appErrors.ErrUpstream, err, fmt.Sprintf("%s: %v", action, err))
}

// requireBase fails with a configuration error when a base identifier is unset.
func requireBase(setting, value string) error {
	if strings.TrimSpace(value) == "" {
		return appErrors.Clone(appErrors.ErrConfiguration, setting+" is not configured")
	}
	return nil
}
