/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package envelope

import (
	_ "embed"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Operation names one outward-facing action on a resource.
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Operations lists every operation a resource must define codes for.
var Operations = []Operation{OpList, OpGet, OpCreate, OpUpdate, OpDelete}

// Outcome is one row of the code table.
type Outcome struct {
	Code    string `yaml:"code" json:"code"`
	Message string `yaml:"message" json:"message"`
	Status  int    `yaml:"status" json:"status"`
}

// Pair holds the success and failure outcome of an operation.
type Pair struct {
	Success Outcome `yaml:"success"`
	Failure Outcome `yaml:"failure"`
}

// ResourceCodes is the code table of a single resource.
type ResourceCodes struct {
	Prefix     string             `yaml:"prefix"`
	Operations map[Operation]Pair `yaml:"operations"`
	NotFound   Outcome            `yaml:"not_found"`
	Invalid    Outcome            `yaml:"invalid"`
}

type catalogFile struct {
	Resources map[string]ResourceCodes `yaml:"resources"`
}

// Catalog is an immutable lookup from resource and operation to outcome.
type Catalog struct {
	resources map[string]ResourceCodes
	success   map[string]struct{}
}

//go:embed codes.yaml
var defaultCodes []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog, parsed once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCodes)
		if err != nil {
			panic(fmt.Sprintf("envelope: invalid built-in code table: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a YAML code table. Every resource must define
// all operations, codes must carry the resource prefix, and no code may be
// used both for a success and a failure.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse code table: %w", err)
	}
	if len(file.Resources) == 0 {
		return nil, fmt.Errorf("code table defines no resources")
	}

	c := &Catalog{resources: make(map[string]ResourceCodes, len(file.Resources)), success: map[string]struct{}{}}
	failures := map[string]struct{}{}
	for name, rc := range file.Resources {
		if rc.Prefix == "" {
			return nil, fmt.Errorf("resource %q: missing prefix", name)
		}
		for _, op := range Operations {
			pair, ok := rc.Operations[op]
			if !ok {
				return nil, fmt.Errorf("resource %q: missing operation %q", name, op)
			}
			if err := checkOutcome(rc.Prefix, pair.Success, true); err != nil {
				return nil, fmt.Errorf("resource %q %s success: %w", name, op, err)
			}
			if err := checkOutcome(rc.Prefix, pair.Failure, false); err != nil {
				return nil, fmt.Errorf("resource %q %s failure: %w", name, op, err)
			}
			c.success[pair.Success.Code] = struct{}{}
			failures[pair.Failure.Code] = struct{}{}
		}
		for label, o := range map[string]Outcome{"not_found": rc.NotFound, "invalid": rc.Invalid} {
			if err := checkOutcome(rc.Prefix, o, false); err != nil {
				return nil, fmt.Errorf("resource %q %s: %w", name, label, err)
			}
			failures[o.Code] = struct{}{}
		}
		c.resources[name] = rc
	}
	for code := range c.success {
		if _, dup := failures[code]; dup {
			return nil, fmt.Errorf("code %s is used for both success and failure", code)
		}
	}
	return c, nil
}

func checkOutcome(prefix string, o Outcome, success bool) error {
	if !strings.HasPrefix(o.Code, prefix) {
		return fmt.Errorf("code %q lacks prefix %q", o.Code, prefix)
	}
	if o.Message == "" {
		return fmt.Errorf("code %q has no message", o.Code)
	}
	if http.StatusText(o.Status) == "" {
		return fmt.Errorf("code %q has unknown status %d", o.Code, o.Status)
	}
	if ok := o.Status < http.StatusBadRequest; ok != success {
		return fmt.Errorf("code %q status %d does not match its outcome kind", o.Code, o.Status)
	}
	return nil
}

// internalOutcome answers lookups for resources the table does not know.
var internalOutcome = Outcome{Code: "SYS1000", Message: "Internal server error", Status: http.StatusInternalServerError}

func (c *Catalog) Success(resource string, op Operation) Outcome {
	if rc, ok := c.resources[resource]; ok {
		return rc.Operations[op].Success
	}
	return internalOutcome
}

func (c *Catalog) Failure(resource string, op Operation) Outcome {
	if rc, ok := c.resources[resource]; ok {
		return rc.Operations[op].Failure
	}
	return internalOutcome
}

func (c *Catalog) NotFound(resource string) Outcome {
	if rc, ok := c.resources[resource]; ok {
		return rc.NotFound
	}
	return internalOutcome
}

func (c *Catalog) Invalid(resource string) Outcome {
	if rc, ok := c.resources[resource]; ok {
		return rc.Invalid
	}
	return internalOutcome
}

// IsSuccessCode reports whether code is one of the table's success codes.
func (c *Catalog) IsSuccessCode(code string) bool {
	_, ok := c.success[code]
	return ok
}

// Resources returns the known resource names in sorted order.
func (c *Catalog) Resources() []string {
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
