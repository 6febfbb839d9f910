package language

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genLanguageSet generates random mixes of known and unknown language codes.
func genLanguageSet() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf(
		"en", "fr", "de", "es", "pt", "it",
		"ar", "fa", "ur", "ug",
		"ja", "ko", "th", "ch_sim", "ch_tra",
		"hi", "mr", "ne",
		"ru", "be", "bg", "uk", "mn", "el", "he",
		"xx", "zz", "EN", " Fr ",
	))
}

func TestFixDependencies_Idempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fixDependencies(fixDependencies(S)) == fixDependencies(S)", prop.ForAll(
		func(codes []string) bool {
			once, _ := FixDependencies(codes)
			twice, dropped := FixDependencies(once)
			if len(dropped) != 0 {
				return false
			}
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		genLanguageSet(),
	))

	properties.Property("result is never empty for non-empty normalized input", prop.ForAll(
		func(codes []string) bool {
			fixed, _ := FixDependencies(codes)
			return len(Normalize(codes)) == 0 || len(fixed) > 0
		},
		genLanguageSet(),
	))

	properties.TestingRun(t)
}

func TestPlanGroups_DisjointExceptHubProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no language except the hub appears in two groups", prop.ForAll(
		func(codes []string) bool {
			seen := make(map[string]int)
			for _, g := range PlanGroups(codes) {
				for _, l := range g.Languages {
					seen[l]++
				}
			}
			for l, n := range seen {
				if l != Hub && n > 1 {
					return false
				}
			}
			return true
		},
		genLanguageSet(),
	))

	properties.TestingRun(t)
}
