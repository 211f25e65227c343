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
	"fmt"
	"net"
	"strings"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

const (
	SectionKey         = "key"
	SectionCatalogZone = "catalog-zone"

	noKey       = "NOKEY"
	defaultPort = "53"
)

// TSIGKey is a shared secret used to sign zone transfer requests.
type TSIGKey struct {
	Name      string `mapstructure:"name" validate:"required"`
	Algorithm string `mapstructure:"algorithm" validate:"required,oneof=hmac-md5.sig-alg.reg.int hmac-sha1 hmac-sha224 hmac-sha256 hmac-sha384 hmac-sha512"`
	Secret    string `mapstructure:"secret" validate:"required,base64"`
}

func (key TSIGKey) String() string {
	return fmt.Sprintf("Name: %s, Algorithm: %s", key.Name, key.Algorithm)
}

// FQDN returns the key name the way it has to appear on the wire.
func (key TSIGKey) FQDN() string {
	return common.MakeDomainCanonical(strings.ToLower(key.Name))
}

// AlgorithmFQDN returns the algorithm name the way it has to appear on the wire.
func (key TSIGKey) AlgorithmFQDN() string {
	return common.MakeDomainCanonical(key.Algorithm)
}

// catalogZoneDocument is the raw shape of a catalog-zone section before the optional fields are resolved.
type catalogZoneDocument struct {
	Name       string  `mapstructure:"name" validate:"required"`
	Pattern    *string `mapstructure:"pattern" validate:"omitempty,min=1"`
	RequestXFR *string `mapstructure:"request-xfr" validate:"omitempty,min=1"`
	ZoneFile   *string `mapstructure:"zonefile" validate:"omitempty,min=1"`
}

// CatalogZoneSource describes where a catalog zone comes from and which pattern its member zones are served with.
type CatalogZoneSource struct {
	// Origin is normalized (lower case, no trailing dot).
	Origin string

	// Master is the host:port of the upstream master. Nil for a catalog that is only read from ZoneFile.
	Master *string

	// Key signs the transfer. Nil when the master is configured with NOKEY.
	Key *TSIGKey

	// ZoneFile is the local cache of the catalog (or its only source when Master is nil).
	ZoneFile *string

	Pattern string
}

func (source CatalogZoneSource) String() string {
	master := "none"
	if source.Master != nil {
		master = *source.Master
	}
	key := noKey
	if source.Key != nil {
		key = source.Key.Name
	}

	return fmt.Sprintf("Origin: %s, Master: %s, Key: %s, Pattern: %s", source.Origin, master, key, source.Pattern)
}

// Config is the parsed configuration file. Catalogs keep the order they were declared in.
type Config struct {
	Keys     map[string]TSIGKey
	Catalogs []CatalogZoneSource
}

// Masters returns the upstream masters of every catalog that serves its zones with the given pattern.
func (cfg *Config) Masters(pattern string) (masters []string) {
	for _, catalog := range cfg.Catalogs {
		if catalog.Pattern != pattern || catalog.Master == nil {
			continue
		}
		if !common.SliceContains(*catalog.Master, masters) {
			masters = append(masters, *catalog.Master)
		}
	}

	return
}

// ConfigurationError is raised for configuration problems detected before any network traffic.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func configurationErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ParseMasterAddress accepts "ip", "ip@port" (nsd.conf style) or "host:port" and returns host:port.
func ParseMasterAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("empty master address")
	}

	if ip := net.ParseIP(address); ip != nil {
		return net.JoinHostPort(address, defaultPort), nil
	}

	if at := strings.LastIndex(address, "@"); at > 0 {
		host, port := address[:at], address[at+1:]
		if port == "" {
			return "", fmt.Errorf("missing port in master address %s", address)
		}
		return net.JoinHostPort(host, port), nil
	}

	if host, port, err := net.SplitHostPort(address); err == nil {
		return net.JoinHostPort(host, port), nil
	}

	return net.JoinHostPort(address, defaultPort), nil
}
