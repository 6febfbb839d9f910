package language

import (
	"log/slog"
	"strings"
)

// Hub is the language whose Latin alphabet is cheap to include in every
// engine call and improves cross-script robustness (numerals, punctuation,
// embedded English).
const Hub = "en"

// IsolationLeader is the language whose engine compatibility is restricted to
// a fixed companion set, overriding all other grouping logic.
const IsolationLeader = "ar"

// isolationSet is the only language combination the engine accepts once the
// isolation leader is requested.
var isolationSet = []string{IsolationLeader, "fa", "ur", "ug", Hub}

// soloWithHub lists scripts the engine runs one-per-call, paired with the hub.
var soloWithHub = []string{"ch_sim", "ch_tra", "ja", "ko", "th"}

// devanagariSet lists scripts that jointly share one engine call with the hub.
var devanagariSet = []string{"hi", "mr", "ne"}

// nonLatinAux lists non-Latin scripts that pair individually with the hub but
// do not require a dedicated decode pass of their own.
var nonLatinAux = []string{"ru", "be", "bg", "uk", "mn", "el", "he", "fa", "ur", "ug"}

var (
	isolationLookup  = toSet(isolationSet)
	soloLookup       = toSet(soloWithHub)
	devanagariLookup = toSet(devanagariSet)
	auxLookup        = toSet(nonLatinAux)
)

func toSet(codes []string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}

// Normalize lowercases, trims, and deduplicates language codes while
// preserving first-seen order. Empty entries are dropped.
func Normalize(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// FixDependencies expands or restricts a requested language set according to
// the engine's compatibility rules:
//
//  1. The isolation leader forces exactly its fixed companion set; everything
//     else is dropped (reported via the returned dropped list and a warning).
//  2. Scripts that cannot run standalone pull in the hub.
//  3. Non-Latin auxiliary scripts pull in the hub as well.
//
// The result is never empty for non-empty input, and the function is
// idempotent.
func FixDependencies(requested []string) (langs, dropped []string) {
	langs = Normalize(requested)
	if len(langs) == 0 {
		return langs, nil
	}

	if contains(langs, IsolationLeader) {
		for _, l := range langs {
			if _, ok := isolationLookup[l]; !ok {
				dropped = append(dropped, l)
			}
		}
		if len(dropped) > 0 {
			slog.Warn("Languages incompatible with isolation group dropped",
				"leader", IsolationLeader, "dropped", dropped)
		}
		return append([]string(nil), isolationSet...), dropped
	}

	needsHub := false
	for _, l := range langs {
		if _, ok := soloLookup[l]; ok {
			needsHub = true
			break
		}
		if _, ok := devanagariLookup[l]; ok {
			needsHub = true
			break
		}
	}
	if !needsHub {
		for _, l := range langs {
			if _, ok := auxLookup[l]; ok {
				needsHub = true
				break
			}
		}
	}
	if needsHub && !contains(langs, Hub) {
		langs = append(langs, Hub)
	}
	return langs, nil
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
