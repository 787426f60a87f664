package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ErrArtifactNotFound is returned when no artifact is registered under a name.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is a named contract interface whose ABI is known to the binary.
// Built-in artifacts register themselves via init() in their own
// <name>_abi.go file.
type Artifact struct {
	Name        string // e.g. "ILendingPool"
	Description string // one-line summary shown by `aaveborrow artifacts`
	ABI         abi.ABI
}

var artifacts = map[string]*Artifact{}

// RegisterArtifact parses abiJSON and adds it to the registry under name,
// replacing any previous entry. Invalid JSON panics, so call it from init()
// only with constant input; use LoadArtifactFile for user files.
func RegisterArtifact(name, description, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("contract: invalid ABI for %s: %v", name, err))
	}
	register(&Artifact{Name: name, Description: description, ABI: parsed})
}

func register(a *Artifact) {
	artifacts[strings.ToLower(a.Name)] = a
}

// Lookup returns the artifact registered under name (case-insensitive).
func Lookup(name string) (*Artifact, error) {
	a, ok := artifacts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	return a, nil
}

// AllArtifacts returns every registered artifact sorted by name.
func AllArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadArtifactFile registers the ABI found in path, which is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"contractName":"...","abi":[...],...}
//
// The artifact is named after contractName when present, otherwise after the
// file name without extension. An existing artifact of the same name is
// replaced.
func LoadArtifactFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("artifact file is empty: %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	abiJSON := data

	var hardhat struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
	}
	if json.Unmarshal(data, &hardhat) == nil && len(hardhat.ABI) > 1 && hardhat.ABI[0] == '[' {
		abiJSON = hardhat.ABI
		if hardhat.ContractName != "" {
			name = hardhat.ContractName
		}
	} else if data[0] == '{' {
		return nil, fmt.Errorf("%s is a JSON object without an \"abi\" array", path)
	}

	parsed, err := abi.JSON(strings.NewReader(string(abiJSON)))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI in %s: %w", path, err)
	}
	if len(parsed.Methods) == 0 {
		return nil, fmt.Errorf("ABI in %s has no functions", path)
	}

	a := &Artifact{Name: name, Description: "loaded from " + filepath.Base(path), ABI: parsed}
	register(a)
	return a, nil
}

// LoadArtifactDir loads every *.json artifact below dir, skipping Hardhat
// debug files. A missing dir loads nothing.
func LoadArtifactDir(dir string) ([]*Artifact, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var loaded []*Artifact
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		a, err := LoadArtifactFile(path)
		if err != nil {
			return err
		}
		loaded = append(loaded, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// MethodNames returns the artifact's function names sorted alphabetically.
func (a *Artifact) MethodNames() []string {
	names := make([]string, 0, len(a.ABI.Methods))
	for name := range a.ABI.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
