package kiosk

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"kiosk/internal/prefs"
)

// ValidateService checks a descriptor before an operator adds or edits it.
// The store itself accepts any descriptor with a unique id.
func ValidateService(d prefs.ServiceDescriptor) error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("service id must not be empty")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("service %s: name must not be empty", d.ID)
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("service %s: invalid url: %w", d.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service %s: url must be absolute http(s), got %q", d.ID, d.URL)
	}
	return nil
}
