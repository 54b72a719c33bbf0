// Package seed reads the optional YAML file of users to create at startup.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jiralite/tracker/internal/core/service"
)

// File is the on-disk layout:
//
//	users:
//	  - username: alice
//	    email: alice@example.com
//	    password: s3cret!
//	    roles: [USER]
type File struct {
	Users []service.SeedUser `yaml:"users"`
}

// Load reads and decodes the seed file at path. An empty path yields no users.
func Load(path string) ([]service.SeedUser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) ([]service.SeedUser, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, u := range file.Users {
		if u.Username == "" || u.Email == "" {
			return nil, fmt.Errorf("seed user #%d: username and email are required", i+1)
		}
	}
	return file.Users, nil
}
