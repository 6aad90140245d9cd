// Package id generates prefixed unique identifiers for domain entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. Keeping these in one place makes stored keys greppable.
const (
	PrefixJournal = "jr"
	PrefixEntry   = "en"
	PrefixMedia   = "md"
	PrefixShare   = "sh"
	PrefixInvite  = "in"
	PrefixVersion = "ver"
)

// slugLength is the length of share and invite slugs. 24 characters of the
// URL-safe NanoID alphabet is well past 128 bits of entropy, comfortably
// unguessable.
const slugLength = 24

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "jr-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// GenerateSlug creates an unprefixed random slug for share links.
// Slugs are bearer capabilities, so they get more entropy than entity IDs.
func GenerateSlug() (string, error) {
	slug, err := gonanoid.New(slugLength)
	if err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return slug, nil
}

// MustGenerateSlug is like GenerateSlug but panics on failure.
func MustGenerateSlug() string {
	slug, err := GenerateSlug()
	if err != nil {
		panic(fmt.Sprintf("failed to generate slug: %v", err))
	}
	return slug
}
