package config

import (
	"bytes"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustOneOf(value, envName string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	log.Fatalf("env %s=%q must be one of %v", envName, value, allowed)
}

// MustDiffer stops startup when two secrets are configured with the same value.
func MustDiffer(a, b []byte, envA, envB string) {
	if bytes.Equal(a, b) {
		log.Fatalf("env %s and %s must not share a value", envA, envB)
	}
}
