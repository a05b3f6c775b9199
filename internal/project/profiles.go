package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SheetGang/internal/model"
)

// DefaultProfilesPath returns the default file path for custom cutter profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	if profiles == nil {
		profiles = []model.GCodeProfile{}
	}
	return writeJSONFile(path, profiles)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	profiles := []model.GCodeProfile{}
	if _, err := readJSONFile(path, &profiles); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// ExportProfile exports a single profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.GCodeProfile) error {
	return writeJSONFile(path, profile)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	var profile model.GCodeProfile
	found, err := readJSONFile(path, &profile)
	if err != nil {
		return model.GCodeProfile{}, err
	}
	if !found {
		return model.GCodeProfile{}, fmt.Errorf("profile file %s: %w", path, os.ErrNotExist)
	}
	if err := validateProfile(profile); err != nil {
		return model.GCodeProfile{}, err
	}
	return profile, nil
}

// ResolveProfile looks a profile up among the custom profiles first, then
// among the built-in ones. Unknown names fall back to the Generic profile.
func ResolveProfile(name string, custom []model.GCodeProfile) model.GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return model.GetProfile(name)
}

func validateProfile(p model.GCodeProfile) error {
	switch {
	case p.Name == "":
		return errors.New("profile has no name")
	case p.RapidMove == "" || p.FeedMove == "":
		return errors.New("profile " + p.Name + " must define rapid and feed moves")
	}
	return nil
}
