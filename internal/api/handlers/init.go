package handlers

import (
	"strings"

	"github.com/pysugar/account-tabs/internal/version"
)

// init injects the build version into the embedded HTML page.
func init() {
	dashboardHTML = strings.ReplaceAll(dashboardHTML, "{{VERSION}}", version.Version)
}
