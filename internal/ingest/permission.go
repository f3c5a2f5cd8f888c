package ingest

import (
	"fmt"
	"strings"
)

// Permission is the user's answer to the location permission request.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission accepts "granted" or "denied" (case-insensitive).
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(strings.ToLower(strings.TrimSpace(s))); p {
	case PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return "", fmt.Errorf("invalid location permission %q", s)
	}
}

// Granted reports whether location updates may start.
func (p Permission) Granted() bool {
	return p == PermissionGranted
}
