package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/hirehub/jobportal/pkg/client"
)

type session struct {
	Token string       `json:"token"`
	User  *client.User `json:"user,omitempty"`
}

func sessionPath() string {
	if p := os.Getenv("JOBPORTAL_SESSION"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobportal-session.json"
	}
	return filepath.Join(home, ".jobportal", "session.json")
}

func loadSession(path string) (session, error) {
	var s session
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(data, &s)
	return s, err
}

func saveSession(path string, s session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearSession(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
