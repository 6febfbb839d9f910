package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Default models directory relative to the project root.
const DefaultModelsDir = "models"

// Environment variable for the traineddata directory override. Tesseract's
// own convention is honored so existing installations work unchanged.
const EnvTessdataDir = "TESSDATA_PREFIX"

// ErrModelsUnavailable indicates that recognition cannot proceed because one
// or more language models are missing.
var ErrModelsUnavailable = errors.New("language models unavailable")

// ErrUnknownLanguage indicates a language code with no traineddata mapping.
var ErrUnknownLanguage = errors.New("unknown language code")

// traineddata maps engine language codes to Tesseract traineddata names.
var traineddata = map[string]string{
	"en":     "eng",
	"ar":     "ara",
	"fa":     "fas",
	"ur":     "urd",
	"ug":     "uig",
	"hi":     "hin",
	"mr":     "mar",
	"ne":     "nep",
	"ja":     "jpn",
	"ko":     "kor",
	"th":     "tha",
	"ch_sim": "chi_sim",
	"ch_tra": "chi_tra",
	"ru":     "rus",
	"be":     "bel",
	"bg":     "bul",
	"uk":     "ukr",
	"mn":     "mon",
	"el":     "ell",
	"he":     "heb",
	"fr":     "fra",
	"de":     "deu",
	"es":     "spa",
	"pt":     "por",
	"it":     "ita",
	"nl":     "nld",
	"pl":     "pol",
	"ro":     "ron",
	"tr":     "tur",
	"vi":     "vie",
	"id":     "ind",
	"ms":     "msa",
	"sv":     "swe",
	"da":     "dan",
	"no":     "nor",
	"fi":     "fin",
	"cs":     "ces",
	"hu":     "hun",
	"hr":     "hrv",
	"sk":     "slk",
	"sl":     "slv",
	"et":     "est",
	"lv":     "lav",
	"lt":     "lit",
}

// systemTessdataDirs are searched when no explicit or environment override is
// present and the project-local models directory does not exist.
var systemTessdataDirs = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
	"/usr/local/share/tessdata",
	"/opt/homebrew/share/tessdata",
}

// TraineddataName resolves an engine language code to its traineddata name.
func TraineddataName(code string) (string, error) {
	name, ok := traineddata[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return name, nil
}

// TraineddataNames resolves a set of engine language codes, preserving order.
func TraineddataNames(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		name, err := TraineddataName(c)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// SupportedLanguages returns the sorted list of engine language codes with a
// traineddata mapping.
func SupportedLanguages() []string {
	out := make([]string, 0, len(traineddata))
	for code := range traineddata {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("could not find project root (go.mod not found)")
}

// GetTessdataDir returns the traineddata directory.
// Priority: explicit override, TESSDATA_PREFIX, project root models dir,
// first existing system path, and finally the relative default.
func GetTessdataDir(override string) string {
	if override != "" {
		return override
	}
	if envDir := os.Getenv(EnvTessdataDir); envDir != "" {
		return envDir
	}
	if projectRoot, err := findProjectRoot(); err == nil {
		dir := filepath.Join(projectRoot, DefaultModelsDir)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	for _, dir := range systemTessdataDirs {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return DefaultModelsDir
}

// TraineddataPath returns the full path of a language's traineddata file.
func TraineddataPath(tessdataDir, code string) (string, error) {
	name, err := TraineddataName(code)
	if err != nil {
		return "", err
	}
	return filepath.Join(GetTessdataDir(tessdataDir), name+".traineddata"), nil
}

// EnsureAvailable verifies that every language's traineddata file exists.
// It is idempotent and performs no downloads; a missing file produces an
// ErrModelsUnavailable naming every absent path.
func EnsureAvailable(languages []string, tessdataDir string) error {
	var missing []string
	for _, code := range languages {
		path, err := TraineddataPath(tessdataDir, code)
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); statErr != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrModelsUnavailable, strings.Join(missing, ", "))
	}
	return nil
}
