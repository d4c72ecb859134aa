package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                      "/home",
		"/invitation/3":         "/invitation/3",
		"/event/1?tab=comments": "/event/1?tab=comments",
		"https://evil.example":  "/home",
		"//evil.example/path":   "/home",
		`/\evil.example`:        "/home",
		"relative/path":         "/home",
	}
	for input, want := range cases {
		assert.Equal(t, want, SafeRedirectPath(input, "/home"), "girdi: %q", input)
	}
}
