// Package extract pulls identifying facts out of a raw call transcript.
//
// Extraction never fails: when nothing matches, each function returns its
// documented sentinel value.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	UnknownAgent       = "Unknown"
	AccountNotFound    = "Not mentioned"
	CallTypeOutbound   = "Outbound"
	CallTypeInbound    = "Inbound"
	wordCharacterClass = `[\p{L}\p{N}_]+`
)

// Patterns are tried in order against the lower-cased transcript; the first
// one that matches wins.
var (
	agentNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`my name is (` + wordCharacterClass + `)`),
		regexp.MustCompile(`this is (` + wordCharacterClass + `)`),
		regexp.MustCompile(`speaking with (` + wordCharacterClass + `)`),
	}

	accountNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`account (\d+)`),
		regexp.MustCompile(`account number (\d+)`),
		regexp.MustCompile(`account #(\d+)`),
	}

	outboundMarkers = []string{"outbound", "calling from"}
)

// AgentName returns the capitalized name the agent introduced themselves
// with, or UnknownAgent.
func AgentName(text string) string {
	if m := firstMatch(agentNamePatterns, lower(text)); m != "" {
		return capitalize(m)
	}
	return UnknownAgent
}

// lower applies full Unicode lower-casing, including the final form of sigma.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// capitalize title-cases the first rune of an already lower-cased word.
// Later runes are left alone, so "123abc" stays "123abc".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// CallType classifies the call as CallTypeOutbound or CallTypeInbound.
func CallType(text string) string {
	lowered := lower(text)
	for _, marker := range outboundMarkers {
		if strings.Contains(lowered, marker) {
			return CallTypeOutbound
		}
	}
	return CallTypeInbound
}

// AccountNumber returns the digits of the first account number mentioned, or
// AccountNotFound.
func AccountNumber(text string) string {
	if m := firstMatch(accountNumberPatterns, lower(text)); m != "" {
		return m
	}
	return AccountNotFound
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
