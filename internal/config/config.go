/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

// Options carry the run-level settings that fill in optional configuration fields.
type Options struct {
	// DefaultPattern is used for catalogs that do not name a pattern.
	DefaultPattern string
}

var validate = validator.New()

// Load reads and parses the configuration file at path. Relative zone file names are resolved against the
// directory the configuration file lives in.
func Load(path string, options Options) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return Parse(string(data), filepath.Dir(path), options)
}

// Parse parses the configuration text. Keys are read before catalogs so a catalog may reference a key declared
// anywhere in the file.
func Parse(text string, baseDir string, options Options) (*Config, error) {
	sections, err := SplitSections(text)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Keys: make(map[string]TSIGKey),
	}

	var catalogDocuments []catalogZoneDocument
	for i, section := range sections {
		if len(section) != 1 {
			return nil, configurationErrorf("section %d must have exactly one top level name", i)
		}

		for name, body := range section {
			switch name {
			case SectionKey:
				var key TSIGKey
				if err := decodeSection(body, &key); err != nil {
					return nil, configurationErrorf("key section %d: %s", i, err)
				}
				key.Algorithm = normalizeAlgorithm(key.Algorithm)
				if err := validate.Struct(key); err != nil {
					return nil, configurationErrorf("key %s: %s", key.Name, validationReason(err))
				}
				if _, exists := cfg.Keys[key.Name]; exists {
					return nil, configurationErrorf("duplicate key %s found", key.Name)
				}
				cfg.Keys[key.Name] = key
			case SectionCatalogZone:
				var document catalogZoneDocument
				if err := decodeSection(body, &document); err != nil {
					return nil, configurationErrorf("catalog-zone section %d: %s", i, err)
				}
				if err := validate.Struct(document); err != nil {
					return nil, configurationErrorf("catalog-zone %s: %s", document.Name, validationReason(err))
				}
				catalogDocuments = append(catalogDocuments, document)
			default:
				return nil, configurationErrorf("unknown section %q", name)
			}
		}
	}

	seen := make(map[string]bool)
	for _, document := range catalogDocuments {
		source, err := cfg.resolveCatalog(document, baseDir, options)
		if err != nil {
			return nil, err
		}
		if seen[source.Origin] {
			return nil, configurationErrorf("duplicate catalog-zone %s found", source.Origin)
		}
		seen[source.Origin] = true

		cfg.Catalogs = append(cfg.Catalogs, source)
	}

	if len(cfg.Catalogs) == 0 {
		return nil, configurationErrorf("no catalog-zone defined")
	}

	return cfg, nil
}

func (cfg *Config) resolveCatalog(document catalogZoneDocument, baseDir string,
	options Options) (source CatalogZoneSource, err error) {
	source.Origin = common.NormalizeZoneName(document.Name)
	if source.Origin == "" {
		err = configurationErrorf("catalog-zone name %q is not a zone name", document.Name)
		return
	}

	switch {
	case document.Pattern != nil:
		source.Pattern = *document.Pattern
	case options.DefaultPattern != "":
		source.Pattern = options.DefaultPattern
	default:
		err = configurationErrorf("catalog-zone %s has no pattern and no default pattern is set", source.Origin)
		return
	}

	if document.ZoneFile != nil {
		zoneFile := *document.ZoneFile
		if !filepath.IsAbs(zoneFile) && baseDir != "" {
			zoneFile = filepath.Join(baseDir, zoneFile)
		}
		source.ZoneFile = &zoneFile
	}

	if document.RequestXFR == nil {
		if source.ZoneFile == nil {
			err = configurationErrorf("either request-xfr or zonefile must be specified for %s", source.Origin)
		}
		return
	}

	fields := strings.Fields(*document.RequestXFR)
	if len(fields) != 2 {
		err = configurationErrorf("catalog-zone %s: request-xfr must be \"<master> <key-name|NOKEY>\"",
			source.Origin)
		return
	}

	master, parseErr := ParseMasterAddress(fields[0])
	if parseErr != nil {
		err = configurationErrorf("catalog-zone %s: %s", source.Origin, parseErr)
		return
	}
	source.Master = &master

	if strings.ToUpper(fields[1]) != noKey {
		key, ok := cfg.Keys[fields[1]]
		if !ok {
			err = configurationErrorf("catalog-zone %s references unknown key %s", source.Origin, fields[1])
			return
		}
		source.Key = &key
	}

	return
}

// SplitSections breaks the configuration text into one generic map per top level section. Every line that starts
// in the first column opens a new section, comment lines and blank lines are dropped.
func SplitSections(text string) ([]map[string]interface{}, error) {
	var builder strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			builder.WriteString("---\n")
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan configuration: %w", err)
	}

	var sections []map[string]interface{}
	decoder := yaml.NewDecoder(strings.NewReader(builder.String()))
	for {
		var section map[string]interface{}
		err := decoder.Decode(&section)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, configurationErrorf("failed to parse configuration: %s", err)
		}
		if section == nil {
			continue
		}
		sections = append(sections, section)
	}

	return sections, nil
}

func decodeSection(body interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(body)
}

func normalizeAlgorithm(algorithm string) string {
	algorithm = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(algorithm), "."))
	if algorithm == "hmac-md5" {
		return "hmac-md5.sig-alg.reg.int"
	}

	return algorithm
}

func validationReason(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	reasons := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		reasons = append(reasons, fmt.Sprintf("%s failed %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}

	return strings.Join(reasons, ", ")
}
